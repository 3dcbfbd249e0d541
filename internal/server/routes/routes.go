package routes

import (
	"github.com/moura-ar/portfolio/internal/api/middleware"
	"github.com/moura-ar/portfolio/internal/logging"
	"github.com/moura-ar/portfolio/internal/metrics"
	rootmiddleware "github.com/moura-ar/portfolio/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, opts Options) {
	logger := logging.GetGlobalLogger()

	// One bucket shared by every route.
	throttle := middleware.RateLimitMiddleware(opts.Throttle)

	if h.Health != nil {
		SetupHealthRoutes(router, h.Health, throttle)
	}

	if h.Metrics != nil {
		router.GET("/metrics", throttle, gin.WrapH(h.Metrics))
	}

	// Contact routes (public)
	SetupContactRoutes(router, h.Contact, throttle, opts)

	logger.Info("All routes have been set up successfully")
}

// GlobalMiddlewareConfig carries what the global middleware chain needs
type GlobalMiddlewareConfig struct {
	ServiceName string
	Metrics     *metrics.Metrics
}

// SetupGlobalMiddleware configures middleware that applies to all routes,
// 404 and 405 answers included.
func SetupGlobalMiddleware(router *gin.Engine, logger *logging.Logger, cfg GlobalMiddlewareConfig) {
	router.Use(rootmiddleware.Recovery(logger))
	router.Use(rootmiddleware.RequestID())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cfg.Metrics.Middleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())
}
