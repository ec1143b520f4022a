package routes

import (
	"sentinel/internal/controllers"
	"sentinel/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterMonitorRoutes(r *gin.Engine, monitor *services.Monitor, telemetry *services.Telemetry) {
	api := r.Group("/api")
	{
		api.GET("/status", controllers.GetStatus(monitor))
		api.GET("/alerts", controllers.GetAlerts(monitor))
	}

	r.GET("/metrics", gin.WrapH(telemetry.Handler()))
}
