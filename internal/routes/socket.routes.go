package routes

import (
	"log/slog"

	"sentinel/internal/controllers"
	"sentinel/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterSocketRoutes registers the observer endpoint.
func RegisterSocketRoutes(r *gin.Engine, hub *services.WebSocketHub, monitor *services.Monitor, allowedOrigins []string, logger *slog.Logger) {
	r.GET("/ws", controllers.HandleWebSocket(hub, monitor, allowedOrigins, logger))
}
