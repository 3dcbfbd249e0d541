package formclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/moura-ar/portfolio/internal/logging"
)

// UmamiSendPath is the Umami event collection endpoint.
const UmamiSendPath = "/api/send"

// NopSink discards events.
type NopSink struct{}

func (NopSink) Send(context.Context, Event) error { return nil }

// LogSink writes events to a logger at debug level.
type LogSink struct {
	Logger *logging.Logger
}

func (s LogSink) Send(_ context.Context, event Event) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.Debug("analytics %s %v", event.Name, event.Data)
	return nil
}

// UmamiConfig configures an UmamiSink.
type UmamiConfig struct {
	// Host is the Umami base URL, e.g. https://analytics.example.com.
	Host      string
	WebsiteID string
	Hostname  string
	UserAgent string
	Timeout   time.Duration
}

// UmamiSink posts events to an Umami instance.
type UmamiSink struct {
	endpoint  string
	websiteID string
	hostname  string
	userAgent string
	client    *http.Client
}

type umamiRequest struct {
	Type    string       `json:"type"`
	Payload umamiPayload `json:"payload"`
}

type umamiPayload struct {
	Website  string                 `json:"website"`
	Hostname string                 `json:"hostname,omitempty"`
	URL      string                 `json:"url,omitempty"`
	Name     string                 `json:"name"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// NewUmamiSink creates a sink for the given Umami instance.
func NewUmamiSink(cfg UmamiConfig) *UmamiSink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAnalyticsDeadline
	}
	return &UmamiSink{
		endpoint:  strings.TrimRight(cfg.Host, "/") + UmamiSendPath,
		websiteID: cfg.WebsiteID,
		hostname:  cfg.Hostname,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *UmamiSink) Send(ctx context.Context, event Event) error {
	page, _ := event.Data["page"].(string)
	body, err := json.Marshal(umamiRequest{
		Type: "event",
		Payload: umamiPayload{
			Website:  s.websiteID,
			Hostname: s.hostname,
			URL:      page,
			Name:     event.Name,
			Data:     event.Data,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode umami event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create umami request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Umami drops events without a user agent.
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send umami event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("umami returned status %d", resp.StatusCode)
	}
	return nil
}
