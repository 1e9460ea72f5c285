package server

import (
	"time"

	"hidokei/internal/timelapse"
)

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ServerInfo はサーバーの基本情報
type ServerInfo struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// StatusResponse はシステム状態のレスポンス
type StatusResponse struct {
	Status    string               `json:"status"`
	Server    ServerInfo           `json:"server"`
	Scheduler timelapse.StatusInfo `json:"scheduler"`
	Timestamp time.Time            `json:"timestamp"`
}

// VideoInfo は完成した動画ファイルの情報
type VideoInfo struct {
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// VideosResponse は動画一覧のレスポンス
type VideosResponse struct {
	Videos []VideoInfo `json:"videos"`
}

// ErrorResponse はエラーレスポンス
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
