// Package daywindow は日毎の撮影時間帯（日中ウィンドウ）の算出を担う
//
// # 責務
// - 指定日付の撮影開始・終了時刻の算出
// - 固定時刻モードと日の出・日の入りモードの提供
// - 設定値（モード・座標・マージン）の検証
//
// # 仕様
// - 固定モード: 毎日同じ時刻（デフォルト 05:45〜19:00）
// - 太陽モード: 緯度経度から日の出・日の入りを計算し、前後にマージンを加える
// - 時刻はすべてプロセスのローカルタイムゾーンで評価する
package daywindow

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"gopkg.in/yaml.v3"
)

// Window は一日の撮影時間帯を表す
type Window struct {
	Start time.Time // 撮影開始時刻
	End   time.Time // 撮影終了時刻
}

// Contains は指定時刻がウィンドウ内（start <= t < end）かを判定する
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Oracle は日付から撮影時間帯を算出するインターフェース
type Oracle interface {
	// WindowFor は指定日付の撮影時間帯を返す
	WindowFor(date time.Time) Window
}

// モード定数
const (
	ModeFixed = "fixed" // 固定時刻モード
	ModeSolar = "solar" // 日の出・日の入りモード
)

// Config は撮影時間帯の設定
type Config struct {
	Mode       string        `yaml:"mode"`        // "fixed" または "solar"
	FixedStart string        `yaml:"fixed_start"` // 固定モードの開始時刻 (HH:MM)
	FixedEnd   string        `yaml:"fixed_end"`   // 固定モードの終了時刻 (HH:MM)
	Latitude   float64       `yaml:"latitude"`    // 太陽モードの緯度
	Longitude  float64       `yaml:"longitude"`   // 太陽モードの経度
	Margin     time.Duration `yaml:"margin"`      // 日の出前・日の入り後のマージン
}

// DefaultConfig はデフォルトの撮影時間帯設定を返す
func DefaultConfig() Config {
	return Config{
		Mode:       ModeFixed,
		FixedStart: "05:45",
		FixedEnd:   "19:00",
		Margin:     40 * time.Minute,
	}
}

// UnmarshalYAML はマージンを "40m" のような文字列表記で受け付ける
// 未指定のフィールドは既存値（デフォルト）を保持する
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Mode       string  `yaml:"mode"`
		FixedStart string  `yaml:"fixed_start"`
		FixedEnd   string  `yaml:"fixed_end"`
		Latitude   float64 `yaml:"latitude"`
		Longitude  float64 `yaml:"longitude"`
		Margin     string  `yaml:"margin"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Mode != "" {
		c.Mode = raw.Mode
	}
	if raw.FixedStart != "" {
		c.FixedStart = raw.FixedStart
	}
	if raw.FixedEnd != "" {
		c.FixedEnd = raw.FixedEnd
	}
	if raw.Latitude != 0 {
		c.Latitude = raw.Latitude
	}
	if raw.Longitude != 0 {
		c.Longitude = raw.Longitude
	}
	if raw.Margin != "" {
		margin, err := time.ParseDuration(raw.Margin)
		if err != nil {
			return fmt.Errorf("margin の解析に失敗: %w", err)
		}
		c.Margin = margin
	}

	return nil
}

// NewOracle は設定からOracleを作成する
// 設定値の検証はここで行い、実行時のエラー経路は持たない
func NewOracle(cfg Config) (Oracle, error) {
	switch cfg.Mode {
	case ModeFixed:
		start, err := parseClock(cfg.FixedStart)
		if err != nil {
			return nil, fmt.Errorf("開始時刻の解析に失敗: %w", err)
		}
		end, err := parseClock(cfg.FixedEnd)
		if err != nil {
			return nil, fmt.Errorf("終了時刻の解析に失敗: %w", err)
		}
		return &FixedOracle{start: start, end: end}, nil

	case ModeSolar:
		if cfg.Latitude < -90 || cfg.Latitude > 90 {
			return nil, fmt.Errorf("無効な緯度: %f", cfg.Latitude)
		}
		if cfg.Longitude < -180 || cfg.Longitude > 180 {
			return nil, fmt.Errorf("無効な経度: %f", cfg.Longitude)
		}
		if cfg.Margin < 0 {
			return nil, fmt.Errorf("無効なマージン: %s", cfg.Margin)
		}
		return &SolarOracle{
			latitude:  cfg.Latitude,
			longitude: cfg.Longitude,
			margin:    cfg.Margin,
		}, nil

	default:
		return nil, fmt.Errorf("無効なウィンドウモード: %q", cfg.Mode)
	}
}

// clockTime は時・分のみの時刻表現
type clockTime struct {
	hour   int
	minute int
}

// parseClock は "HH:MM" 形式の文字列を解析する
func parseClock(s string) (clockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return clockTime{}, fmt.Errorf("時刻形式が不正 (%q): %w", s, err)
	}
	return clockTime{hour: t.Hour(), minute: t.Minute()}, nil
}

// FixedOracle は毎日同じ時刻のウィンドウを返す
type FixedOracle struct {
	start clockTime
	end   clockTime
}

// WindowFor は指定日付の固定ウィンドウを返す
func (o *FixedOracle) WindowFor(date time.Time) Window {
	return Window{
		Start: time.Date(date.Year(), date.Month(), date.Day(), o.start.hour, o.start.minute, 0, 0, date.Location()),
		End:   time.Date(date.Year(), date.Month(), date.Day(), o.end.hour, o.end.minute, 0, 0, date.Location()),
	}
}

// SolarOracle は日の出・日の入りからウィンドウを算出する
type SolarOracle struct {
	latitude  float64
	longitude float64
	margin    time.Duration
}

// WindowFor は指定日付の日の出前〜日の入り後のウィンドウを返す
func (o *SolarOracle) WindowFor(date time.Time) Window {
	rise, set := sunrise.SunriseSunset(o.latitude, o.longitude, date.Year(), date.Month(), date.Day())
	return Window{
		Start: rise.In(date.Location()).Add(-o.margin),
		End:   set.In(date.Location()).Add(o.margin),
	}
}
