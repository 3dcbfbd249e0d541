package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("N8N_WEBHOOK_URL", "")
	t.Setenv("N8N_JWT_SECRET", "")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://moura.ar", cfg.SiteOrigin)
	assert.Equal(t, []string{"https://moura.ar", "https://www.moura.ar"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
	assert.Equal(t, 10*time.Minute, cfg.RateLimitSweepInterval)
	assert.Equal(t, 10*time.Second, cfg.RelayTimeout)
	assert.Equal(t, RateLimitBackendMemory, cfg.RateLimitBackend)
	assert.Equal(t, "./logs/api.log", cfg.LogFile)
	assert.False(t, cfg.RelayConfigured())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("RATE_LIMIT_MAX", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://example.org")
	t.Setenv("N8N_WEBHOOK_URL", "https://hooks.example.org/contact")
	t.Setenv("N8N_JWT_SECRET", "s3cret")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 3, cfg.RateLimitMax)
	assert.Equal(t, 30*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, []string{"https://example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, "/app/logs/api.log", cfg.LogFile)
	assert.True(t, cfg.RelayConfigured())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			SiteOrigin:             "https://moura.ar",
			RateLimitMax:           5,
			RateLimitWindow:        time.Hour,
			RateLimitSweepInterval: 10 * time.Minute,
			RateLimitBackend:       RateLimitBackendMemory,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero limit", func(c *Config) { c.RateLimitMax = 0 }, true},
		{"zero window", func(c *Config) { c.RateLimitWindow = 0 }, true},
		{"redis without url", func(c *Config) { c.RateLimitBackend = RateLimitBackendRedis }, true},
		{"redis with url", func(c *Config) {
			c.RateLimitBackend = RateLimitBackendRedis
			c.RedisURL = "redis://localhost:6379/0"
		}, false},
		{"unknown backend", func(c *Config) { c.RateLimitBackend = "memcached" }, true},
		{"http site origin", func(c *Config) { c.SiteOrigin = "http://moura.ar" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
