package routes

import (
	"net/http"

	"github.com/moura-ar/portfolio/internal/api/handlers"
	"github.com/moura-ar/portfolio/internal/api/middleware"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
	// Metrics serves the Prometheus registry; nil disables /metrics.
	Metrics http.Handler
}

// Options tunes route-level middleware
type Options struct {
	MaxBodyBytes int64
	// Throttle is the process-wide token bucket; a zero RPS disables it.
	Throttle middleware.RateLimitConfig
}
