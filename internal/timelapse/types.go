package timelapse

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はタイムラプス設定
type Config struct {
	OutputDir     string        `yaml:"output_dir"`     // 画像・動画の保存先ディレクトリ
	Interval      time.Duration `yaml:"interval"`       // 撮影間隔 (デフォルト: 30秒)
	FrameRate     int           `yaml:"frame_rate"`     // 動画のフレームレート (fps)
	FontFile      string        `yaml:"font_file"`      // タイムスタンプ焼き込み用フォント
	Playlist      string        `yaml:"playlist"`       // アップロード先プレイリスト名（空なら公開無効）
	UploadTimeout time.Duration `yaml:"upload_timeout"` // アップロードの上限時間
	SettleDelay   time.Duration `yaml:"settle_delay"`   // 削除前の待機時間
}

// DefaultConfig はデフォルトのタイムラプス設定を返す
func DefaultConfig() Config {
	return Config{
		Interval:      30 * time.Second,
		FrameRate:     30,
		FontFile:      "/Library/Fonts/Arial Unicode.ttf",
		Playlist:      "",
		UploadTimeout: 600 * time.Second,
		SettleDelay:   2 * time.Second,
	}
}

// UnmarshalYAML は期間を "30s" のような文字列表記で受け付ける
// 未指定のフィールドは既存値（デフォルト）を保持する
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		OutputDir     string `yaml:"output_dir"`
		Interval      string `yaml:"interval"`
		FrameRate     int    `yaml:"frame_rate"`
		FontFile      string `yaml:"font_file"`
		Playlist      string `yaml:"playlist"`
		UploadTimeout string `yaml:"upload_timeout"`
		SettleDelay   string `yaml:"settle_delay"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.OutputDir != "" {
		c.OutputDir = raw.OutputDir
	}
	if raw.FrameRate > 0 {
		c.FrameRate = raw.FrameRate
	}
	if raw.FontFile != "" {
		c.FontFile = raw.FontFile
	}
	if raw.Playlist != "" {
		c.Playlist = raw.Playlist
	}

	for _, d := range []struct {
		value string
		dst   *time.Duration
		name  string
	}{
		{raw.Interval, &c.Interval, "interval"},
		{raw.UploadTimeout, &c.UploadTimeout, "upload_timeout"},
		{raw.SettleDelay, &c.SettleDelay, "settle_delay"},
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

// Outcome はプロファイル1件の実行結果
type Outcome string

// Outcome の定数定義
const (
	OutcomeSucceeded Outcome = "succeeded" // エンコード成功
	OutcomeFailed    Outcome = "failed"    // エンコード失敗
	OutcomeSkipped   Outcome = "skipped"   // 出力が既に存在したため未実行
)

// Profile は動画生成の出力ターゲット1件を表す
// 宣言順が実行順となり、順序は意味を持つ
type Profile struct {
	Name        string // ログ表示用の名前
	Suffix      string // 出力ファイル名の接尾辞（例: "_TS"）
	VideoFilter string // ffmpegの-vfフィルタ（空なら無し）
	TitleLayout string // アップロードタイトルのtimeレイアウト（空なら公開しない）
}

// OutputFilename は指定日の出力動画ファイル名を返す
func (p Profile) OutputFilename(day time.Time) string {
	return "VID_" + day.Format("20060102") + p.Suffix + ".mp4"
}

// UploadTitle は指定日のアップロードタイトルを返す（公開対象外なら空）
func (p Profile) UploadTitle(day time.Time) string {
	if p.TitleLayout == "" {
		return ""
	}
	return day.Format(p.TitleLayout)
}

// DefaultProfiles はリファレンス構成の2プロファイルを返す
// 1本目はプレーン動画、2本目はタイムスタンプ焼き込み動画（アップロード対象）
func DefaultProfiles(fontFile string) []Profile {
	return []Profile{
		{
			Name: "plain",
		},
		{
			Name:        "timestamp",
			Suffix:      "_TS",
			VideoFilter: timestampFilter(fontFile),
			TitleLayout: "2006-01-02 Monday",
		},
	}
}

// timestampFilter は各フレームの撮影時刻を画面下部中央に焼き込むフィルタを返す
func timestampFilter(fontFile string) string {
	return fmt.Sprintf("drawtext=fontfile=%s: fontsize=30: fontcolor=white: text='%%{metadata\\:DateTime\\:def_value}': x=(w-tw)/2: y=h-(2*lh)", fontFile)
}

// ProfileResult はプロファイル1件の実行記録
type ProfileResult struct {
	Profile    string  `json:"profile"`     // プロファイル名
	OutputPath string  `json:"output_path"` // 出力動画のパス
	Outcome    Outcome `json:"outcome"`     // 実行結果
	Uploaded   bool    `json:"uploaded"`    // アップロード成功したか
}

// Report はパイプライン1回分の実行レポート
type Report struct {
	RunID        string          `json:"run_id"`        // 実行ID
	Day          string          `json:"day"`           // 対象日 (YYYYMMDD)
	FrameCount   int             `json:"frame_count"`   // 対象フレーム数
	Results      []ProfileResult `json:"results"`       // プロファイル毎の結果
	AllSucceeded bool            `json:"all_succeeded"` // 全プロファイル成功か
	Deleted      bool            `json:"deleted"`       // フレームを削除したか
	FinishedAt   time.Time       `json:"finished_at"`   // 完了時刻
}
