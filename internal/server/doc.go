// Package server は、HTTPサーバーとアプリケーションの起動を管理します。
//
// このパッケージは、撮影スケジューラと動画生成パイプラインの組み立て、
// 状態確認用HTTP APIの提供、シグナルによるグレースフルシャットダウンを
// 担当します。
//
// 責務:
//   - 設定からのコンポーネント組み立て（オラクル・カメラ・パイプライン）
//   - 撮影ループのライフサイクル管理
//   - 状態確認API（/health, /api/status, /api/videos）の提供
//   - グレースフルシャットダウン
//
// 仕様:
//   - HTTPルーティングはgin-gonic/ginを使用
//   - 撮影ループは専用ゴルーチンで実行
//   - SIGINT/SIGTERMで停止し、実行中のパイプラインは完了まで待つ
package server
