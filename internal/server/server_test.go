package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moura-ar/portfolio/internal/config"
	"github.com/moura-ar/portfolio/internal/logging"
	"github.com/moura-ar/portfolio/internal/metrics"
	"github.com/moura-ar/portfolio/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("ENV", "test")
	cfg, err := config.Parse()
	require.NoError(t, err)
	return cfg
}

func TestServer_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := NewServer(testConfig(t), Deps{
		Limiter: ratelimit.NewSlidingWindow(5, time.Hour),
		Metrics: metrics.New(prometheus.NewRegistry()),
	}, logging.NewNop())

	tests := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/contact", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/contact", http.StatusMethodNotAllowed},
		{http.MethodOptions, "/api/contact", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/contact", http.StatusForbidden},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.code, rec.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), "%s %s", tt.method, tt.path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	}
}

func TestServer_ContactRejectsEveryOtherMethod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer(testConfig(t), Deps{}, logging.NewNop())

	for _, method := range []string{
		http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodConnect, http.MethodTrace, "PROPFIND",
	} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(method, "/api/contact", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"), method)
	}

	// Other paths keep the router's own answer.
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.NotEqual(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestServer_ForeignOriginIsForbiddenBeforeThrottle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.GlobalRPS = 1
	cfg.GlobalBurst = 1
	srv := NewServer(cfg, Deps{}, logging.NewNop())

	post := func(origin string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusForbidden, post("https://evil.example"))
	}
	assert.NotEqual(t, http.StatusTooManyRequests, post("https://moura.ar"))
	assert.Equal(t, http.StatusTooManyRequests, post("https://moura.ar"))
	assert.Equal(t, http.StatusForbidden, post("https://evil.example"))
}

func TestServer_StartStops(t *testing.T) {
	cfg := testConfig(t)
	cfg.Port = "0"
	srv := NewServer(cfg, Deps{}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
