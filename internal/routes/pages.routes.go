package routes

import (
	"path/filepath"

	"sentinel/internal/controllers"
	"sentinel/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterPageRoutes serves the dashboard and the event log download.
func RegisterPageRoutes(r *gin.Engine, webDir string, events *services.EventLog) {
	r.Static("/static", filepath.Join(webDir, "static"))
	r.GET("/", controllers.Dashboard(webDir))
	r.GET("/download_alerts", controllers.DownloadAlerts(events))
}
