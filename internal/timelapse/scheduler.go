package timelapse

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"hidokei/internal/camera"
	"hidokei/internal/daywindow"
)

// StatusInfo はスケジューラの状態情報
type StatusInfo struct {
	State           string    `json:"state"`            // 現在の状態
	WindowStart     time.Time `json:"window_start"`     // 当日の撮影開始時刻
	WindowEnd       time.Time `json:"window_end"`       // 当日の撮影終了時刻
	LastClosedDay   string    `json:"last_closed_day"`  // 最後に締めた日 (YYYYMMDD)
	PhotosCaptured  int       `json:"photos_captured"`  // 撮影成功数
	CaptureFailures int       `json:"capture_failures"` // 撮影失敗数
	PendingFrames   int       `json:"pending_frames"`   // 当日の未処理フレーム数
	LastReport      *Report   `json:"last_report"`      // 直近のパイプライン実行レポート
}

// State の定数定義
const (
	StateBeforeWindow  = "before_window"  // 撮影開始前
	StateInWindow      = "in_window"      // 撮影中
	StateAlreadyClosed = "already_closed" // 当日分は締め済み
)

// Scheduler は日毎の撮影と動画生成を駆動するループ
//
// 日を締めたかどうかの記録（lastClosedDay）はメモリ上にのみ持つ。
// ウィンドウ内でプロセスを再起動すると記録が失われ、同じ日の
// パイプラインが再実行され得るが、その場合もパイプライン側の
// 出力存在チェックによりフレームが削除されることはない。
type Scheduler struct {
	cfg      Config
	oracle   daywindow.Oracle
	capturer camera.Capturer
	pipeline *Pipeline

	// テストから時刻を注入するためのクロック
	clock func() time.Time

	mu              sync.RWMutex
	lastClosedDay   string
	photosCaptured  int
	captureFailures int
	lastReport      *Report
}

// NewScheduler は新しいSchedulerを作成する
func NewScheduler(cfg Config, oracle daywindow.Oracle, capturer camera.Capturer, pipeline *Pipeline) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		oracle:   oracle,
		capturer: capturer,
		pipeline: pipeline,
		clock:    time.Now,
	}
}

// Run は撮影ループを開始する
// コンテキストのキャンセルで次のティック前に停止する
func (s *Scheduler) Run(ctx context.Context) error {
	log.Printf("タイムラプス撮影ループを開始します (間隔: %s)", s.cfg.Interval)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.tick(ctx, s.clock())

	for {
		select {
		case <-ctx.Done():
			log.Println("撮影ループの停止シグナルを検知しました")
			return nil
		case <-ticker.C:
			s.tick(ctx, s.clock())
		}
	}
}

// tick は1回分のスケジューリング判断を行う
// 状態は保持せず、現在時刻とlastClosedDayから毎回導出する
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	day := DayKey(now)

	s.mu.RLock()
	closed := s.lastClosedDay == day
	s.mu.RUnlock()

	if closed {
		return // 当日分は締め済み
	}

	window := s.oracle.WindowFor(now)

	switch {
	case now.Before(window.Start):
		// 撮影開始前は何もしない

	case !now.Before(window.End):
		s.closeDay(now)

	default:
		s.captureOne(ctx, now)
	}
}

// captureOne は1フレームを撮影する
// 撮影の失敗はループを止めず、記録して次のティックへ進む
func (s *Scheduler) captureOne(ctx context.Context, now time.Time) {
	path := FramePath(s.cfg.OutputDir, now)

	if err := s.capturer.Capture(ctx, path); err != nil {
		log.Printf("写真の撮影に失敗しました: %v", err)
		s.mu.Lock()
		s.captureFailures++
		s.mu.Unlock()
		return
	}

	log.Printf("%s -- 写真を撮影して保存しました: %s", now.Format("2006-01-02 15:04:05"), path)
	s.mu.Lock()
	s.photosCaptured++
	s.mu.Unlock()
}

// closeDay は一日の撮影を締め、必要なら動画生成パイプラインを実行する
//
// lastClosedDayはパイプラインの成否にかかわらず必ず設定するため、
// 日付ごとの遷移は一度しか発生しない。一度始めたパイプラインは
// 中断しないため、ループのコンテキストは渡さない。
func (s *Scheduler) closeDay(now time.Time) {
	pattern := FramePattern(s.cfg.OutputDir, now)
	frames, err := filepath.Glob(pattern)
	if err != nil {
		log.Printf("フレームパターンの展開に失敗: %v", err)
	}

	if len(frames) > 0 {
		log.Println("一日の撮影を終了し、動画を生成します")
		report := s.pipeline.Run(context.Background(), now)

		s.mu.Lock()
		s.lastReport = report
		s.mu.Unlock()

		log.Println("翌日の撮影開始まで待機します")
	}

	s.mu.Lock()
	s.lastClosedDay = DayKey(now)
	s.mu.Unlock()
}

// Status は指定時刻における現在の状態を返す
func (s *Scheduler) Status(now time.Time) StatusInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window := s.oracle.WindowFor(now)

	state := StateBeforeWindow
	switch {
	case s.lastClosedDay == DayKey(now):
		state = StateAlreadyClosed
	case window.Contains(now):
		state = StateInWindow
	case !now.Before(window.End):
		// 締め処理前のウィンドウ終了後も撮影対象外として扱う
		state = StateAlreadyClosed
	}

	pending := 0
	if frames, err := filepath.Glob(FramePattern(s.cfg.OutputDir, now)); err == nil {
		pending = len(frames)
	}

	return StatusInfo{
		State:           state,
		WindowStart:     window.Start,
		WindowEnd:       window.End,
		LastClosedDay:   s.lastClosedDay,
		PhotosCaptured:  s.photosCaptured,
		CaptureFailures: s.captureFailures,
		PendingFrames:   pending,
		LastReport:      s.lastReport,
	}
}
