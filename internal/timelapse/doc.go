// Package timelapse は日中タイムラプスの中核を担う
//
// # 責務
// - 日毎の撮影スケジューリング（日の終わり判定は日付ごとに一度だけ）
// - 撮影済みフレームからの動画生成パイプライン
// - 動画の公開（アップロード）と撮影フレームの安全な削除
//
// # 仕様
// - フレーム名: IMG_<YYYYMMDD><HHMMSS>.jpg
// - 動画名: VID_<YYYYMMDD>.mp4 / VID_<YYYYMMDD>_TS.mp4
// - プロファイルは宣言順に逐次実行する（並列化しない）
// - 全プロファイル成功かつ全出力ファイル存在を確認した場合のみフレームを削除する
// - 既存の出力がある日の再実行ではフレームを削除しない
package timelapse
