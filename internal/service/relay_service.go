package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/moura-ar/portfolio/internal/api/dto/v1/contact"
	"github.com/moura-ar/portfolio/internal/api/sanitization"
	"github.com/moura-ar/portfolio/internal/api/validation"
	"github.com/moura-ar/portfolio/internal/logging"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// RelaySource identifies this site in the payload metadata.
	RelaySource = "moura.ar"
	// RelayUserAgent is sent on every webhook call.
	RelayUserAgent = "moura.ar-contact-form/1.0"

	defaultRelayTimeout = 10 * time.Second
	maxErrorBody        = 1024
	timestampLayout     = "2006-01-02T15:04:05.000Z07:00"
	unknownValue        = "unknown"
)

// RequestMeta describes the inbound request a submission came from.
type RequestMeta struct {
	UserAgent string
	IP        string
	Origin    string
}

// RelayResult is the outcome of one relay attempt. Error is for logs only.
type RelayResult struct {
	Success bool
	Error   string
}

// Relayer forwards a validated submission.
type Relayer interface {
	Relay(ctx context.Context, form contact.FormData, utm contact.UTMParams, meta RequestMeta) RelayResult
}

// RelayService posts contact submissions to the automation webhook
type RelayService struct {
	webhookURL string
	tokens     *TokenService
	client     *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewRelayService creates a new relay service. A zero timeout uses 10s.
func NewRelayService(webhookURL string, tokens *TokenService, timeout time.Duration, logger *logging.Logger) *RelayService {
	if timeout <= 0 {
		timeout = defaultRelayTimeout
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &RelayService{
		webhookURL: webhookURL,
		tokens:     tokens,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		tracer: otel.Tracer("github.com/moura-ar/portfolio/internal/service"),
		now:    time.Now,
	}
}

// Configured reports whether both the webhook URL and the signing secret
// are set.
func (s *RelayService) Configured() bool {
	return s.webhookURL != "" && s.tokens != nil && s.tokens.Configured()
}

// Relay builds the payload, signs a token and POSTs it. It never returns an
// error value: every failure is logged and reported as Success=false.
func (s *RelayService) Relay(ctx context.Context, form contact.FormData, utm contact.UTMParams, meta RequestMeta) RelayResult {
	ctx, span := s.tracer.Start(ctx, "contact.relay")
	defer span.End()

	if err := s.relay(ctx, form, utm, meta); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "relay failed")
		s.logger.Error("Failed to relay contact submission: %v", err)
		return RelayResult{Success: false, Error: err.Error()}
	}

	span.SetStatus(codes.Ok, "")
	return RelayResult{Success: true}
}

func (s *RelayService) relay(ctx context.Context, form contact.FormData, utm contact.UTMParams, meta RequestMeta) error {
	if s.webhookURL == "" {
		return fmt.Errorf("%w: webhook URL is not set", ErrConfiguration)
	}
	if s.tokens == nil {
		return fmt.Errorf("%w: token service is not set", ErrConfiguration)
	}

	payload := BuildRelayPayload(form, utm, meta, s.now())
	if err := validation.ValidateRelayPayload(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	token, err := s.tokens.Issue()
	if err != nil {
		return err
	}

	body := EncodeRelayPayload(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrRelay, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", RelayUserAgent)

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("contact.project_type", payload.ProjectType),
		attribute.Int("contact.message_length", len(payload.Message)),
	)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: webhook request failed: %v", ErrRelay, err)
	}
	defer resp.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: webhook returned %s: %s", ErrRelay, resp.Status, strings.TrimSpace(string(text)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// BuildRelayPayload assembles the webhook body. Every free-text value is
// sanitized exactly once, here, and the result is only valid as input to
// EncodeRelayPayload: running it through encoding/json would escape it again.
func BuildRelayPayload(form contact.FormData, utm contact.UTMParams, meta RequestMeta, now time.Time) contact.RelayPayload {
	return contact.RelayPayload{
		Name:        sanitization.SanitizeForJSON(form.Name),
		Email:       sanitization.SanitizeEmail(form.Email),
		Message:     sanitization.SanitizeForJSON(form.Message),
		ProjectType: sanitization.SanitizeForJSON(strings.Join(form.ProjectType, ", ")),
		Budget:      sanitization.SanitizeForJSON(form.Budget),
		UTM: lo.MapValues(utm, func(v string, _ string) string {
			return sanitization.SanitizeForJSON(v)
		}),
		Metadata: contact.Metadata{
			Timestamp: now.UTC().Format(timestampLayout),
			Source:    RelaySource,
			UserAgent: sanitization.SanitizeForJSON(orUnknown(meta.UserAgent)),
			IP:        sanitization.SanitizeForJSON(orUnknown(meta.IP)),
			Origin:    sanitization.SanitizeForJSON(orUnknown(meta.Origin)),
		},
	}
}

// EncodeRelayPayload writes p as a JSON object. String values were escaped
// by BuildRelayPayload and are embedded verbatim. UTM keys are sorted.
func EncodeRelayPayload(p contact.RelayPayload) []byte {
	var buf bytes.Buffer
	w := objectWriter{buf: &buf}

	buf.WriteByte('{')
	w.str("name", p.Name)
	w.str("email", p.Email)
	w.str("message", p.Message)
	w.str("projectType", p.ProjectType)
	if p.Budget != "" {
		w.str("budget", p.Budget)
	}
	w.object("utm", func(o *objectWriter) {
		keys := lo.Keys(p.UTM)
		sort.Strings(keys)
		for _, k := range keys {
			o.str(sanitization.SanitizeForJSON(k), p.UTM[k])
		}
	})
	w.object("metadata", func(o *objectWriter) {
		o.str("timestamp", p.Metadata.Timestamp)
		o.str("source", p.Metadata.Source)
		o.str("userAgent", p.Metadata.UserAgent)
		o.str("ip", p.Metadata.IP)
		o.str("origin", p.Metadata.Origin)
	})
	buf.WriteByte('}')
	return buf.Bytes()
}

type objectWriter struct {
	buf *bytes.Buffer
	n   int
}

func (w *objectWriter) key(name string) {
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.n++
	w.buf.WriteString(`"` + name + `":`)
}

// str writes a member whose value is already escaped.
func (w *objectWriter) str(name, escaped string) {
	w.key(name)
	w.buf.WriteString(`"` + escaped + `"`)
}

func (w *objectWriter) object(name string, fill func(*objectWriter)) {
	w.key(name)
	w.buf.WriteByte('{')
	fill(&objectWriter{buf: w.buf})
	w.buf.WriteByte('}')
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownValue
	}
	return s
}
