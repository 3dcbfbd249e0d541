package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moura-ar/portfolio/internal/api/handlers"
	"github.com/moura-ar/portfolio/internal/config"
	"github.com/moura-ar/portfolio/internal/logging"
	"github.com/moura-ar/portfolio/internal/metrics"
	"github.com/moura-ar/portfolio/internal/ratelimit"
	"github.com/moura-ar/portfolio/internal/server"
	"github.com/moura-ar/portfolio/internal/service"
	"github.com/moura-ar/portfolio/internal/tasks"
	"github.com/moura-ar/portfolio/internal/telemetry"
	"github.com/moura-ar/portfolio/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger configuration
	logConfig := &logging.Config{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      7,
		LogRequests: cfg.LogRequests,
	}
	if err := logging.InitLogger(logConfig); err != nil {
		panic(err)
	}
	logger := logging.GetGlobalLogger()
	defer logger.Close()

	logger.Info("Starting server %s in %s mode", version.Version, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Version:     version.Version,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    !cfg.IsProduction(),
	})
	if err != nil {
		logger.Error("Failed to set up tracing: %v", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("Tracing shutdown: %v", err)
		}
	}()

	m := metrics.New(nil)

	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.SiteOrigin,
	})
	relay := service.NewRelayService(cfg.WebhookURL, tokens, cfg.RelayTimeout, logger)
	if !cfg.RelayConfigured() {
		logger.Warn("N8N_WEBHOOK_URL or N8N_JWT_SECRET not set: submissions will fail with 500")
	}

	deps := server.Deps{
		Relay:        relay,
		Metrics:      m,
		HealthChecks: map[string]handlers.HealthCheck{},
	}

	switch cfg.RateLimitBackend {
	case config.RateLimitBackendRedis:
		limiter, err := ratelimit.NewRedisFromURL(cfg.RedisURL, cfg.RateLimitMax, cfg.RateLimitWindow)
		if err != nil {
			logger.Error("Failed to configure redis rate limiter: %v", err)
			os.Exit(1)
		}
		defer limiter.Close()
		deps.Limiter = limiter
		deps.HealthChecks["redis"] = limiter.Ping
		logger.Info("Using redis rate limiter")
	default:
		limiter := ratelimit.NewSlidingWindow(cfg.RateLimitMax, cfg.RateLimitWindow)
		deps.Limiter = limiter

		// Start rate limit sweep task
		sweep := tasks.NewRateLimitSweep(limiter, cfg.RateLimitSweepInterval, logger)
		sweep.OnSweep(func(int) { m.SetTrackedWindows(limiter.Len()) })
		sweep.Start()
		defer sweep.Stop()
		logger.Info("Started rate limit sweep task")
	}

	srv := server.NewServer(cfg, deps, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("Server stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
