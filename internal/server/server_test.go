package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hidokei/internal/config"
	"hidokei/internal/daywindow"
	"hidokei/internal/timelapse"
)

// newTestConfig はテスト用の設定を作成する
func newTestConfig(t *testing.T, port int) *config.Config {
	t.Helper()

	tlCfg := timelapse.DefaultConfig()
	tlCfg.OutputDir = t.TempDir()

	return &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Capture: config.CaptureConfig{
			UseMock: true, // テストでは実カメラを使わない
		},
		Window:    daywindow.DefaultConfig(),
		Timelapse: tlCfg,
	}
}

// TestNewValidation はコンポーネント組み立て時の検証をテストする
func TestNewValidation(t *testing.T) {
	cfg := newTestConfig(t, 8090)
	cfg.Window.Mode = "lunar" // 無効なモード

	if _, err := New(cfg); err == nil {
		t.Error("無効なウィンドウモードでエラーが期待されました")
	}
}

// TestServerStartAndShutdown はサーバーの起動とシャットダウンをテストする
func TestServerStartAndShutdown(t *testing.T) {
	cfg := newTestConfig(t, 8091)

	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("サーバーの作成に失敗しました: %v", err)
	}

	// テスト用のコンテキスト（タイムアウト付き）
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// サーバーを別ゴルーチンで起動
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	// サーバーが起動するまで少し待つ
	time.Sleep(100 * time.Millisecond)

	// コンテキストをキャンセルしてサーバーを停止
	cancel()

	// エラーチャンネルから結果を受信
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("サーバーの起動/停止でエラーが発生しました: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("サーバーの停止がタイムアウトしました")
	}
}

// TestServerEndpoints はサーバーのエンドポイントをテストする
func TestServerEndpoints(t *testing.T) {
	cfg := newTestConfig(t, 8092)

	// 完成済み動画を1本置いておく
	videoPath := filepath.Join(cfg.Timelapse.OutputDir, "VID_20240511.mp4")
	if err := os.WriteFile(videoPath, []byte("video"), 0644); err != nil {
		t.Fatalf("テスト動画の作成に失敗しました: %v", err)
	}

	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("サーバーの作成に失敗しました: %v", err)
	}

	// テスト用のコンテキスト
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// サーバーを別ゴルーチンで起動
	go func() {
		_ = srv.Start(ctx)
	}()

	// サーバーが起動するまで待つ
	time.Sleep(500 * time.Millisecond)

	baseURL := fmt.Sprintf("http://%s", cfg.ServerAddress())

	// テストケース
	testCases := []struct {
		name           string
		endpoint       string
		expectedStatus int
	}{
		{"ヘルスチェックエンドポイント", "/health", http.StatusOK},
		{"ステータスエンドポイント", "/api/status", http.StatusOK},
		{"動画一覧エンドポイント", "/api/videos", http.StatusOK},
	}

	// 各エンドポイントをテスト
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(baseURL + tc.endpoint)
			if err != nil {
				t.Fatalf("HTTPリクエストでエラーが発生しました: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.expectedStatus {
				t.Errorf("予期しないステータスコード: got %d, want %d",
					resp.StatusCode, tc.expectedStatus)
			}
		})
	}

	// 動画一覧の内容を確認
	resp, err := http.Get(baseURL + "/api/videos")
	if err != nil {
		t.Fatalf("HTTPリクエストでエラーが発生しました: %v", err)
	}
	defer resp.Body.Close()

	var videos VideosResponse
	if err := json.NewDecoder(resp.Body).Decode(&videos); err != nil {
		t.Fatalf("レスポンスの解析に失敗しました: %v", err)
	}

	if len(videos.Videos) != 1 {
		t.Fatalf("動画数が一致しません: got %d, want 1", len(videos.Videos))
	}
	if videos.Videos[0].FileName != "VID_20240511.mp4" {
		t.Errorf("動画ファイル名が一致しません: got %s", videos.Videos[0].FileName)
	}
}
