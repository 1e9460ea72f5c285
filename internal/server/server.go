package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hidokei/internal/camera"
	"hidokei/internal/config"
	"hidokei/internal/daywindow"
	"hidokei/internal/timelapse"

	"github.com/gin-gonic/gin"
)

// Server はHTTPサーバーと撮影スケジューラを管理する構造体
type Server struct {
	config     *config.Config
	engine     *gin.Engine
	httpServer *http.Server
	scheduler  *timelapse.Scheduler
	encoder    *timelapse.FFmpegEncoder
}

// New は設定からコンポーネントを組み立てて新しいServerを作成する
// 設定不備（無効な座標など）はここで検出する
func New(cfg *config.Config) (*Server, error) {
	// 撮影時間帯オラクルを作成
	oracle, err := daywindow.NewOracle(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("撮影時間帯オラクルの作成に失敗: %w", err)
	}

	// カメラを作成
	var capturer camera.Capturer
	if cfg.Capture.UseMock {
		log.Println("モックカメラを使用します")
		capturer = camera.NewMockCapturer()
	} else {
		capturer = camera.NewFFmpegCapturer(cfg.Capture.Device, cfg.Capture.Width, cfg.Capture.Height)
	}

	// 動画生成パイプラインを作成
	encoder := timelapse.NewFFmpegEncoder(cfg.Timelapse.FrameRate)

	var uploader timelapse.Uploader
	if cfg.Timelapse.Playlist != "" {
		uploader = timelapse.NewYouTubeUploader()
	}

	profiles := timelapse.DefaultProfiles(cfg.Timelapse.FontFile)
	pipeline := timelapse.NewPipeline(cfg.Timelapse, profiles, encoder, uploader)

	// スケジューラを作成
	scheduler := timelapse.NewScheduler(cfg.Timelapse, oracle, capturer, pipeline)

	// Ginエンジンを作成
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	srv := &Server{
		config:    cfg,
		engine:    engine,
		scheduler: scheduler,
		encoder:   encoder,
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	srv.setupRoutes()
	return srv, nil
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes() {
	// ヘルスチェックエンドポイント
	s.engine.GET("/health", s.handleHealth)

	// APIエンドポイント
	s.engine.GET("/api/status", s.handleStatus)
	s.engine.GET("/api/videos", s.handleVideos)
}

// Start はサーバーと撮影ループを起動する
func (s *Server) Start(ctx context.Context) error {
	// ffmpegの利用可否を確認
	if err := s.encoder.ValidateFFmpeg(); err != nil {
		log.Printf("警告: %v", err)
	}

	// 撮影ループを別ゴルーチンで起動
	schedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.scheduler.Run(schedCtx); err != nil {
			log.Printf("撮影ループでエラーが発生しました: %v", err)
		}
	}()

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s", s.config.ServerAddress())
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			shutdownCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-shutdownCh:
		cancel()
		wg.Wait()
		return err
	}

	// 撮影ループを停止する
	// 実行中のパイプラインがあれば完了まで待つ
	cancel()
	wg.Wait()

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はHTTPサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	// 5秒のタイムアウトを設定
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
