package camera

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// FFmpegCapturer はffmpegを使ってV4L2デバイスから静止画を取得する
type FFmpegCapturer struct {
	devicePath string
	width      int
	height     int
}

// NewFFmpegCapturer は新しいFFmpegCapturerを作成する
func NewFFmpegCapturer(devicePath string, width, height int) *FFmpegCapturer {
	return &FFmpegCapturer{
		devicePath: devicePath,
		width:      width,
		height:     height,
	}
}

// Capture は1フレームを撮影して指定パスにJPEGとして保存する
func (c *FFmpegCapturer) Capture(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx,
		"ffmpeg",
		"-f", "v4l2",
		"-video_size", fmt.Sprintf("%dx%d", c.width, c.height),
		"-i", c.devicePath,
		"-vframes", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"-q:v", "2", // 高品質JPEG
		"-y",
		path,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("フレームキャプチャに失敗: %w (stderr: %s)", err, stderr.String())
	}

	return nil
}

// IsDeviceAvailable はV4L2デバイスが利用可能かチェックする
func (c *FFmpegCapturer) IsDeviceAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "v4l2-ctl", "--device", c.devicePath, "--info")
	err := cmd.Run()
	return err == nil
}

// jpegStub はモック撮影が書き出す最小のJPEGデータ（SOI/EOIマーカーのみ）
var jpegStub = []byte{0xFF, 0xD8, 0xFF, 0xD9}

// MockCapturer はテスト用のモックキャプチャ実装
type MockCapturer struct {
	mu       sync.Mutex
	captured []string

	// テスト制御用
	shouldFail bool
}

// NewMockCapturer は新しいMockCapturerを作成する
func NewMockCapturer() *MockCapturer {
	return &MockCapturer{}
}

// Capture はスタブJPEGを指定パスに書き込む
func (m *MockCapturer) Capture(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return fmt.Errorf("モック: 撮影に失敗")
	}

	if err := os.WriteFile(path, jpegStub, 0644); err != nil {
		return fmt.Errorf("モック画像の保存に失敗: %w", err)
	}

	m.captured = append(m.captured, path)
	return nil
}

// Captured は撮影されたパス一覧を返す
func (m *MockCapturer) Captured() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := make([]string, len(m.captured))
	copy(paths, m.captured)
	return paths
}

// SetShouldFail はテスト用にCapture失敗を設定する
func (m *MockCapturer) SetShouldFail(shouldFail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = shouldFail
}
