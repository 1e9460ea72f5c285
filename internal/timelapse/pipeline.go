package timelapse

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Pipeline は一日分のフレームから動画を生成するパイプライン
//
// プロファイルは宣言順に逐次実行する。エンコードはCPU負荷が高く、
// 同一リソースを奪い合うため並列化しない。
type Pipeline struct {
	outputDir     string
	profiles      []Profile
	encoder       Encoder
	uploader      Uploader // nilなら公開無効
	playlist      string
	uploadTimeout time.Duration
	settleDelay   time.Duration
}

// NewPipeline は新しいPipelineを作成する
func NewPipeline(cfg Config, profiles []Profile, encoder Encoder, uploader Uploader) *Pipeline {
	return &Pipeline{
		outputDir:     cfg.OutputDir,
		profiles:      profiles,
		encoder:       encoder,
		uploader:      uploader,
		playlist:      cfg.Playlist,
		uploadTimeout: cfg.UploadTimeout,
		settleDelay:   cfg.SettleDelay,
	}
}

// Run は指定日のフレームから全プロファイルの動画を生成する
//
// 集計結果は先頭プロファイルの結果で初期化し、以降を論理積で畳み込む。
// スキップ（出力が既に存在）は失敗と同じく集計をfalseにする。
// これにより、エンコード済みの日の再実行でフレームが削除されることはない。
func (p *Pipeline) Run(ctx context.Context, day time.Time) *Report {
	report := &Report{
		RunID: uuid.NewString(),
		Day:   DayKey(day),
	}

	pattern := FramePattern(p.outputDir, day)
	frames, err := filepath.Glob(pattern)
	if err != nil {
		log.Printf("フレームパターンの展開に失敗: %v", err)
		report.FinishedAt = time.Now()
		return report
	}

	report.FrameCount = len(frames)
	if len(frames) == 0 {
		log.Printf("対象フレームがないため動画生成をスキップします: %s", pattern)
		report.FinishedAt = time.Now()
		return report
	}

	log.Printf("動画生成を開始します (run=%s, day=%s, frames=%d)", report.RunID, report.Day, len(frames))

	var aggregate bool
	first := true

	for _, profile := range p.profiles {
		outputPath := filepath.Join(p.outputDir, profile.OutputFilename(day))

		var outcome Outcome
		if _, statErr := os.Stat(outputPath); statErr == nil {
			log.Printf("出力動画が既に存在するため上書きしません: %s", outputPath)
			outcome = OutcomeSkipped
		} else {
			log.Printf("動画ファイルを生成します: %s", outputPath)
			if encErr := p.encoder.Encode(ctx, pattern, outputPath, profile.VideoFilter); encErr != nil {
				log.Printf("動画生成に失敗しました (%s): %v", profile.Name, encErr)
				outcome = OutcomeFailed
			} else {
				outcome = OutcomeSucceeded
			}
		}

		succeeded := outcome == OutcomeSucceeded
		if first {
			aggregate = succeeded
			first = false
		} else {
			aggregate = aggregate && succeeded
		}

		uploaded := false
		if title := profile.UploadTitle(day); title != "" && succeeded {
			uploaded = p.publish(ctx, outputPath, title)
		}

		report.Results = append(report.Results, ProfileResult{
			Profile:    profile.Name,
			OutputPath: outputPath,
			Outcome:    outcome,
			Uploaded:   uploaded,
		})
	}

	report.AllSucceeded = aggregate

	if aggregate && p.outputsExist(day) {
		report.Deleted = p.deleteFrames(pattern)
	}

	report.FinishedAt = time.Now()
	return report
}

// publish は動画をアップロードする
// 失敗・タイムアウトはログのみで握り潰し、後続処理には影響させない
func (p *Pipeline) publish(ctx context.Context, path, title string) bool {
	if p.uploader == nil || p.playlist == "" {
		return false
	}

	log.Printf("タイトル '%s' でYouTubeへアップロードします: %s", title, path)

	uploadCtx, cancel := context.WithTimeout(ctx, p.uploadTimeout)
	defer cancel()

	if err := p.uploader.Upload(uploadCtx, path, title, p.playlist); err != nil {
		log.Printf("アップロードに失敗しました（処理は継続します）: %v", err)
		return false
	}

	return true
}

// outputsExist は全プロファイルの出力動画がディスク上に存在するかチェックする
// 削除の前提条件として、サブプロセスの終了コードだけを信用しない
func (p *Pipeline) outputsExist(day time.Time) bool {
	for _, profile := range p.profiles {
		outputPath := filepath.Join(p.outputDir, profile.OutputFilename(day))
		if _, err := os.Stat(outputPath); err != nil {
			return false
		}
	}
	return true
}

// deleteFrames はパターンに一致するフレームを全て削除する
// エンコーダープロセスのファイルフラッシュと競合しないよう、少し待ってから削除する
func (p *Pipeline) deleteFrames(pattern string) bool {
	log.Printf("当日の画像ファイルを削除します: %s", pattern)
	time.Sleep(p.settleDelay)

	frames, err := filepath.Glob(pattern)
	if err != nil {
		log.Printf("削除対象の展開に失敗: %v", err)
		return false
	}

	deleted := true
	for _, frame := range frames {
		if err := os.Remove(frame); err != nil {
			log.Printf("フレームの削除に失敗 (%s): %v", frame, err)
			deleted = false
		}
	}

	log.Println("削除が完了しました")
	return deleted
}
