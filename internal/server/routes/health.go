package routes

import (
	"github.com/moura-ar/portfolio/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, health *handlers.HealthHandler, throttle gin.HandlerFunc) {
	router.GET("/health", throttle, health.Check)
}
