package routes

import (
	"sentinel/internal/controllers"
	"sentinel/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterProcessRoutes(r *gin.Engine, monitor *services.Monitor) {
	r.GET("/api/processes", controllers.GetTopProcesses(monitor))
}
