package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"sentinel/internal/services"

	"github.com/gin-gonic/gin"
)

const downloadName = "cryptojack_sentinel_log.log"

// DownloadAlerts serves the event log as an attachment.
func DownloadAlerts(events *services.EventLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !events.Exists() {
			c.String(http.StatusNotFound, "No alert logs found.")
			return
		}
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.FileAttachment(events.Path(), downloadName)
	}
}

// Dashboard serves index.html from the web directory.
func Dashboard(webDir string) gin.HandlerFunc {
	index := filepath.Join(webDir, "index.html")
	return func(c *gin.Context) {
		if _, err := os.Stat(index); err != nil {
			c.String(http.StatusNotFound, "dashboard not installed")
			return
		}
		c.File(index)
	}
}
