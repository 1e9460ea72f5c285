package config

import (
	"fmt"
	"os"
	"time"

	"hidokei/internal/daywindow"
	"hidokei/internal/timelapse"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Capture   CaptureConfig    `yaml:"capture"`
	Window    daywindow.Config `yaml:"window"`
	Timelapse timelapse.Config `yaml:"timelapse"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout"` // 書き込みタイムアウト
}

// UnmarshalYAML はタイムアウトを "10s" のような文字列表記で受け付ける
// 未指定のフィールドは既存値（デフォルト）を保持する
func (c *ServerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Host != "" {
		c.Host = raw.Host
	}
	if raw.Port != 0 {
		c.Port = raw.Port
	}

	for _, d := range []struct {
		value string
		dst   *time.Duration
		name  string
	}{
		{raw.ReadTimeout, &c.ReadTimeout, "read_timeout"},
		{raw.WriteTimeout, &c.WriteTimeout, "write_timeout"},
	} {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s の解析に失敗: %w", d.name, err)
		}
		*d.dst = parsed
	}

	return nil
}

// CaptureConfig はカメラ関連の設定
type CaptureConfig struct {
	Device  string `yaml:"device"`   // デバイスパス (例: /dev/video0)
	Width   int    `yaml:"width"`    // 画像幅
	Height  int    `yaml:"height"`   // 画像高さ
	UseMock bool   `yaml:"use_mock"` // モックカメラを使用する（動作確認用）
}

// Load は設定を読み込む
// デフォルト値 → 設定ファイル (CONFIG_FILE) → 環境変数 の順に上書きする
func Load() (*Config, error) {
	// .envファイルがあれば読み込む（無ければ無視）
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, ".envファイルを読み込みました")
	}

	// デフォルト設定を作成
	cfg := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Capture: CaptureConfig{
			Device: "/dev/video0",
			Width:  1920,
			Height: 1080,
		},
		Window:    daywindow.DefaultConfig(),
		Timelapse: timelapse.DefaultConfig(),
	}

	// 設定ファイルがあれば反映
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
	}

	// 環境変数で上書き
	applyEnv(cfg)

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// loadFile はYAML設定ファイルを読み込んで反映する
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ファイルの読み取りに失敗: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("YAMLの解析に失敗: %w", err)
	}

	return nil
}

// applyEnv は環境変数による上書きを適用する
func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnvOrDefault("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsIntOrDefault("PORT", cfg.Server.Port)

	cfg.Capture.Device = getEnvOrDefault("CAPTURE_DEVICE", cfg.Capture.Device)
	cfg.Capture.UseMock = getEnvAsBoolOrDefault("CAPTURE_MOCK", cfg.Capture.UseMock)

	cfg.Window.Mode = getEnvOrDefault("WINDOW_MODE", cfg.Window.Mode)
	cfg.Window.FixedStart = getEnvOrDefault("WINDOW_START", cfg.Window.FixedStart)
	cfg.Window.FixedEnd = getEnvOrDefault("WINDOW_END", cfg.Window.FixedEnd)
	cfg.Window.Latitude = getEnvAsFloatOrDefault("LATITUDE", cfg.Window.Latitude)
	cfg.Window.Longitude = getEnvAsFloatOrDefault("LONGITUDE", cfg.Window.Longitude)

	cfg.Timelapse.OutputDir = getEnvOrDefault("OUTPUT_DIR", cfg.Timelapse.OutputDir)
	cfg.Timelapse.Playlist = getEnvOrDefault("UPLOAD_PLAYLIST", cfg.Timelapse.Playlist)
	if sec := getEnvAsIntOrDefault("CAPTURE_INTERVAL", 0); sec > 0 {
		cfg.Timelapse.Interval = time.Duration(sec) * time.Second
	}
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	// 撮影間隔の検証
	if c.Timelapse.Interval <= 0 {
		return fmt.Errorf("無効な撮影間隔: %s", c.Timelapse.Interval)
	}

	// 出力ディレクトリは事前に存在しなければならない
	if c.Timelapse.OutputDir == "" {
		return fmt.Errorf("出力ディレクトリが指定されていません")
	}
	info, err := os.Stat(c.Timelapse.OutputDir)
	if err != nil {
		return fmt.Errorf("出力ディレクトリが存在しません: %s", c.Timelapse.OutputDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("出力ディレクトリがディレクトリではありません: %s", c.Timelapse.OutputDir)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault は環境変数を実数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatVal float64
		if _, err := fmt.Sscanf(value, "%g", &floatVal); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault は環境変数を真偽値として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return defaultValue
}
