package timelapse

import (
	"path/filepath"
	"time"
)

// ファイル名の日付フォーマット
// 既存データとの互換のため変更してはならない
const (
	dayFormat   = "20060102"
	frameFormat = "20060102150405"
)

// DayKey は日付を一意に識別するキー (YYYYMMDD) を返す
func DayKey(t time.Time) string {
	return t.Format(dayFormat)
}

// FramePath は撮影時刻からフレームの保存先パスを返す
func FramePath(dir string, t time.Time) string {
	return filepath.Join(dir, "IMG_"+t.Format(frameFormat)+".jpg")
}

// FramePattern は指定日のフレーム全件に一致するグロブパターンを返す
func FramePattern(dir string, day time.Time) string {
	return filepath.Join(dir, "IMG_"+day.Format(dayFormat)+"*.jpg")
}
