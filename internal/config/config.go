package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Rate limiter backends
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment  string `env:"ENV" envDefault:"development"`
	Port         string `env:"API_PORT" envDefault:"8080"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"LOG_FILE"`
	LogRequests  bool   `env:"LOG_REQUESTS" envDefault:"false"`
	MaxBodyBytes int64  `env:"MAX_BODY_BYTES" envDefault:"65536"`

	// Global throttle in front of every route (token bucket)
	GlobalRPS   int `env:"GLOBAL_RPS" envDefault:"10"`
	GlobalBurst int `env:"GLOBAL_BURST" envDefault:"20"`

	// Site Configuration
	SiteOrigin     string   `env:"SITE_ORIGIN" envDefault:"https://moura.ar"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://moura.ar,https://www.moura.ar"`

	// Webhook relay (automation service)
	WebhookURL   string        `env:"N8N_WEBHOOK_URL"`
	JWTSecret    string        `env:"N8N_JWT_SECRET"`
	RelayTimeout time.Duration `env:"RELAY_TIMEOUT" envDefault:"10s"`

	// Contact rate limiting
	RateLimitMax           int           `env:"RATE_LIMIT_MAX" envDefault:"5"`
	RateLimitWindow        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`
	RateLimitSweepInterval time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"10m"`
	RateLimitBackend       string        `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`
	RedisURL               string        `env:"REDIS_URL"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"portfolio-contact"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv.Load never overrides variables already present in the environment
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	return Parse()
}

// Parse reads the configuration from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Set default log file if not set
	if cfg.LogFile == "" {
		if cfg.IsProduction() {
			cfg.LogFile = "/app/logs/api.log"
		} else {
			cfg.LogFile = "./logs/api.log"
		}
	}

	return cfg, nil
}

// Validate rejects settings the server cannot run with. Missing relay
// credentials are not an error here: the relay fails closed per request.
func (c *Config) Validate() error {
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.RateLimitSweepInterval <= 0 {
		return fmt.Errorf("RATE_LIMIT_SWEEP_INTERVAL must be positive")
	}
	switch c.RateLimitBackend {
	case RateLimitBackendMemory:
	case RateLimitBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when RATE_LIMIT_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimitBackend)
	}
	if !strings.HasPrefix(c.SiteOrigin, "https://") {
		return fmt.Errorf("SITE_ORIGIN must be an https origin, got %q", c.SiteOrigin)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RelayConfigured reports whether both webhook credentials are present.
func (c *Config) RelayConfigured() bool {
	return c.WebhookURL != "" && c.JWTSecret != ""
}
