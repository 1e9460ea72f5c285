package timelapse

import (
	"context"
	"fmt"
	"os/exec"
)

// Uploader は完成した動画をホスティングサービスへ公開するインターフェース
type Uploader interface {
	// Upload は動画を指定タイトル・プレイリストで限定公開としてアップロードする
	Upload(ctx context.Context, path, title, playlist string) error
}

// YouTubeUploader はyoutube-uploadコマンドによるUploaderの実装
type YouTubeUploader struct{}

// NewYouTubeUploader は新しいYouTubeUploaderを作成する
func NewYouTubeUploader() *YouTubeUploader {
	return &YouTubeUploader{}
}

// Upload はyoutube-uploadを起動して動画を限定公開でアップロードする
// タイムアウトは呼び出し側のコンテキストで制御する
func (u *YouTubeUploader) Upload(ctx context.Context, path, title, playlist string) error {
	cmd := exec.CommandContext(ctx,
		"youtube-upload",
		"--title="+title,
		"--playlist="+playlist,
		"--privacy=unlisted",
		path,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("アップロードに失敗: %w (output: %s)", err, string(output))
	}

	return nil
}
