package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moura-ar/portfolio/internal/api/handlers"
	"github.com/moura-ar/portfolio/internal/api/middleware"
	"github.com/moura-ar/portfolio/internal/config"
	"github.com/moura-ar/portfolio/internal/logging"
	"github.com/moura-ar/portfolio/internal/metrics"
	"github.com/moura-ar/portfolio/internal/ratelimit"
	"github.com/moura-ar/portfolio/internal/security"
	"github.com/moura-ar/portfolio/internal/server/routes"
	"github.com/moura-ar/portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Deps are the long-lived components the server routes to. They are built
// in main so their lifetime is explicit.
type Deps struct {
	Limiter      ratelimit.Limiter
	Relay        service.Relayer
	Metrics      *metrics.Metrics
	HealthChecks map[string]handlers.HealthCheck
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	logger *logging.Logger
	http   *http.Server
}

// NewServer creates a new server instance with every route wired
func NewServer(cfg *config.Config, deps Deps, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	// Create a new engine without default middleware
	router := gin.New()
	router.RedirectTrailingSlash = false

	routes.SetupGlobalMiddleware(router, logger, routes.GlobalMiddlewareConfig{
		ServiceName: cfg.ServiceName,
		Metrics:     deps.Metrics,
	})

	h := &routes.Handlers{
		Contact: handlers.NewContactHandler(handlers.ContactDeps{
			Limiter:        deps.Limiter,
			Relay:          deps.Relay,
			Spam:           security.NewSpamDetector(),
			AllowedOrigins: cfg.AllowedOrigins,
			Logger:         logger,
			Metrics:        deps.Metrics,
		}),
		Health: handlers.NewHealthHandler(deps.HealthChecks, logger),
	}
	if deps.Metrics != nil {
		h.Metrics = deps.Metrics.Handler()
	}

	routes.Setup(router, h, routes.Options{
		MaxBodyBytes: cfg.MaxBodyBytes,
		Throttle: middleware.RateLimitConfig{
			RPS:   float64(cfg.GlobalRPS),
			Burst: cfg.GlobalBurst,
		},
	})

	return &Server{
		router: router,
		cfg:    cfg,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.cfg.RelayTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
