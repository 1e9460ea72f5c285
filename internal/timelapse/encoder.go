package timelapse

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Encoder はフレーム列から動画を生成するインターフェース
type Encoder interface {
	// Encode はパターンに一致するフレームをエンコードして動画を出力する
	// エンコーダープロセスの終了を待ってから返る
	Encode(ctx context.Context, pattern, outputPath, videoFilter string) error
}

// FFmpegEncoder はffmpegによるEncoderの実装
type FFmpegEncoder struct {
	frameRate int
}

// NewFFmpegEncoder は新しいFFmpegEncoderを作成する
func NewFFmpegEncoder(frameRate int) *FFmpegEncoder {
	return &FFmpegEncoder{frameRate: frameRate}
}

// Encode はグロブパターンのフレーム列をH.264/MP4にエンコードする
// 引数は構造化して渡すため、シェルのクォート処理は介在しない
func (e *FFmpegEncoder) Encode(ctx context.Context, pattern, outputPath, videoFilter string) error {
	args := []string{
		"-framerate", strconv.Itoa(e.frameRate),
		"-pattern_type", "glob",
		"-i", pattern,
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-pix_fmt", "yuv420p",
	}
	if videoFilter != "" {
		args = append(args, "-vf", videoFilter)
	}
	args = append(args, outputPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("動画生成に失敗: %w (output: %s)", err, string(output))
	}

	return nil
}

// ValidateFFmpeg はffmpegが利用可能かチェックする
func (e *FFmpegEncoder) ValidateFFmpeg() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg", "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpegが見つかりません。インストールしてください: %w", err)
	}

	return nil
}
