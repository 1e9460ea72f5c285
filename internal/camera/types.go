package camera

import (
	"context"
)

// Capturer は静止画を1枚撮影してファイルに保存するインターフェース
type Capturer interface {
	// Capture は1フレームを撮影して指定パスにJPEGとして保存する
	Capture(ctx context.Context, path string) error
}
