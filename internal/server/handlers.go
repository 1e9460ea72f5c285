package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// handleHealth はヘルスチェックエンドポイントの実装
func (s *Server) handleHealth(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	}

	c.JSON(http.StatusOK, response)
}

// handleStatus はシステム状態取得エンドポイントの実装
func (s *Server) handleStatus(c *gin.Context) {
	response := StatusResponse{
		Status: "running",
		Server: ServerInfo{
			Host: s.config.Server.Host,
			Port: s.config.Server.Port,
		},
		Scheduler: s.scheduler.Status(time.Now()),
		Timestamp: time.Now(),
	}

	c.JSON(http.StatusOK, response)
}

// handleVideos は完成した動画一覧取得エンドポイントの実装
func (s *Server) handleVideos(c *gin.Context) {
	entries, err := os.ReadDir(s.config.Timelapse.OutputDir)
	if err != nil {
		errorResponse := ErrorResponse{
			Error:     "output_dir_unreadable",
			Message:   "出力ディレクトリの読み取りに失敗しました",
			Timestamp: time.Now(),
		}
		c.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	videos := make([]VideoInfo, 0)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "VID_") || filepath.Ext(name) != ".mp4" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		videos = append(videos, VideoInfo{
			FileName:   name,
			FilePath:   filepath.Join(s.config.Timelapse.OutputDir, name),
			FileSize:   info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	c.JSON(http.StatusOK, VideosResponse{Videos: videos})
}
