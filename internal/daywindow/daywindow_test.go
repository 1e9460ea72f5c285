package daywindow

import (
	"testing"
	"time"
)

// TestFixedOracleWindow は固定モードのウィンドウ判定をテストする
func TestFixedOracleWindow(t *testing.T) {
	oracle, err := NewOracle(DefaultConfig())
	if err != nil {
		t.Fatalf("オラクルの作成に失敗しました: %v", err)
	}

	loc := time.Local
	day := time.Date(2024, 5, 11, 12, 0, 0, 0, loc)
	window := oracle.WindowFor(day)

	wantStart := time.Date(2024, 5, 11, 5, 45, 0, 0, loc)
	wantEnd := time.Date(2024, 5, 11, 19, 0, 0, 0, loc)

	if !window.Start.Equal(wantStart) {
		t.Errorf("開始時刻が一致しません: got %v, want %v", window.Start, wantStart)
	}
	if !window.End.Equal(wantEnd) {
		t.Errorf("終了時刻が一致しません: got %v, want %v", window.End, wantEnd)
	}

	testCases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"開始直前", time.Date(2024, 5, 11, 5, 44, 59, 0, loc), false},
		{"開始時刻ちょうど", time.Date(2024, 5, 11, 5, 45, 0, 0, loc), true},
		{"昼", time.Date(2024, 5, 11, 12, 0, 0, 0, loc), true},
		{"終了直前", time.Date(2024, 5, 11, 18, 59, 59, 0, loc), true},
		{"終了時刻ちょうど", time.Date(2024, 5, 11, 19, 0, 0, 0, loc), false},
		{"夜", time.Date(2024, 5, 11, 22, 0, 0, 0, loc), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := window.Contains(tc.now); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

// TestSolarOracleMargin は太陽モードのマージン適用をテストする
func TestSolarOracleMargin(t *testing.T) {
	// バリ島ウブド近郊の座標
	base := Config{
		Mode:      ModeSolar,
		Latitude:  -8.5069,
		Longitude: 115.2625,
	}

	noMargin, err := NewOracle(base)
	if err != nil {
		t.Fatalf("オラクルの作成に失敗しました: %v", err)
	}

	withMargin := base
	withMargin.Margin = 40 * time.Minute
	margined, err := NewOracle(withMargin)
	if err != nil {
		t.Fatalf("オラクルの作成に失敗しました: %v", err)
	}

	day := time.Date(2024, 5, 11, 0, 0, 0, 0, time.Local)
	w0 := noMargin.WindowFor(day)
	w40 := margined.WindowFor(day)

	if !w0.Start.Before(w0.End) {
		t.Fatalf("ウィンドウが不正です: start=%v end=%v", w0.Start, w0.End)
	}

	// マージンは日の出前・日の入り後に対称に適用される
	if got := w0.Start.Sub(w40.Start); got != 40*time.Minute {
		t.Errorf("開始側のマージンが一致しません: got %v, want 40m", got)
	}
	if got := w40.End.Sub(w0.End); got != 40*time.Minute {
		t.Errorf("終了側のマージンが一致しません: got %v, want 40m", got)
	}
}

// TestNewOracleValidation は設定検証をテストする
func TestNewOracleValidation(t *testing.T) {
	testCases := []struct {
		name      string
		config    Config
		expectErr bool
	}{
		{
			name:      "正常な固定モード",
			config:    Config{Mode: ModeFixed, FixedStart: "05:45", FixedEnd: "19:00"},
			expectErr: false,
		},
		{
			name:      "正常な太陽モード",
			config:    Config{Mode: ModeSolar, Latitude: 35.68, Longitude: 139.76, Margin: 40 * time.Minute},
			expectErr: false,
		},
		{
			name:      "無効なモード",
			config:    Config{Mode: "lunar"},
			expectErr: true,
		},
		{
			name:      "不正な開始時刻",
			config:    Config{Mode: ModeFixed, FixedStart: "25:99", FixedEnd: "19:00"},
			expectErr: true,
		},
		{
			name:      "不正な終了時刻",
			config:    Config{Mode: ModeFixed, FixedStart: "05:45", FixedEnd: "aa:bb"},
			expectErr: true,
		},
		{
			name:      "無効な緯度",
			config:    Config{Mode: ModeSolar, Latitude: 123.0, Longitude: 139.76},
			expectErr: true,
		},
		{
			name:      "無効な経度",
			config:    Config{Mode: ModeSolar, Latitude: 35.68, Longitude: -999.0},
			expectErr: true,
		},
		{
			name:      "負のマージン",
			config:    Config{Mode: ModeSolar, Latitude: 35.68, Longitude: 139.76, Margin: -time.Minute},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOracle(tc.config)
			if tc.expectErr && err == nil {
				t.Error("エラーが期待されましたが、エラーが発生しませんでした")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("予期しないエラーが発生しました: %v", err)
			}
		})
	}
}
