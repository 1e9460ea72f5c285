// Package camera はカメラデバイスからの静止画取得を担う
//
// # 責務
// - V4L2デバイスからの1フレーム静止画キャプチャ
// - デバイスの利用可否チェック
// - テスト用モックキャプチャの提供
//
// # 仕様
// - ffmpeg経由でJPEGを直接ファイルに書き出す
// - 撮影は同期・ブロッキングで行う
// - Thread-safe な操作をサポート
//
// # 前提要件
//   - ffmpeg: 画像キャプチャに使用
//     Ubuntu/Debian: sudo apt install ffmpeg
//   - v4l-utils: デバイスの確認に使用
//     Ubuntu/Debian: sudo apt install v4l-utils
//   - videoグループへの参加: デバイスアクセス権限
//     sudo usermod -a -G video $USER
package camera
