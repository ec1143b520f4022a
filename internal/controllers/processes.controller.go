package controllers

import (
	"net/http"

	"sentinel/internal/services"

	"github.com/gin-gonic/gin"
)

// GetTopProcesses returns the process ranking from the last cycle
func GetTopProcesses(monitor *services.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"processes": monitor.Status().Processes,
		})
	}
}
