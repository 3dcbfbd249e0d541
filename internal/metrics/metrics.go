// Package metrics exposes Prometheus collectors for the HTTP API and the
// contact pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeAccepted       = "accepted"
	OutcomeHoneypot       = "honeypot"
	OutcomeSpam           = "spam"
	OutcomeInvalid        = "invalid"
	OutcomeRateLimited    = "rate_limited"
	OutcomeOriginRejected = "origin_rejected"
	OutcomeRelayFailed    = "relay_failed"
	OutcomeError          = "error"
)

// Metrics holds every collector the server registers. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	relayDuration   prometheus.Histogram
	trackedWindows  prometheus.Gauge
}

// New registers all collectors on reg. A nil reg gets a fresh registry with
// the Go and process collectors.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "contact_submissions_total", Help: "Contact submissions by outcome"},
			[]string{"outcome"},
		),
		relayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contact_relay_duration_seconds",
			Help:    "Webhook relay latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		trackedWindows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "contact_rate_limit_windows",
			Help: "Identifiers with an open rate-limit window after the last sweep",
		}),
	}

	reg.MustRegister(m.requests, m.requestDuration, m.submissions, m.relayDuration, m.trackedWindows)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts requests by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// ObserveSubmission counts one contact submission outcome.
func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// ObserveRelay records how long a webhook call took.
func (m *Metrics) ObserveRelay(d time.Duration) {
	if m == nil {
		return
	}
	m.relayDuration.Observe(d.Seconds())
}

// SetTrackedWindows reports the size of the in-memory rate-limit store.
func (m *Metrics) SetTrackedWindows(n int) {
	if m == nil {
		return
	}
	m.trackedWindows.Set(float64(n))
}
