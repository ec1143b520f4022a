package controllers

import (
	"net/http"

	"sentinel/internal/services"

	"github.com/gin-gonic/gin"
)

// GetStatus returns the payload of the last completed monitor cycle.
func GetStatus(monitor *services.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, monitor.Status())
	}
}

// GetAlerts returns the recent alerts, newest first.
func GetAlerts(monitor *services.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"alerts": monitor.Alerts()})
	}
}
