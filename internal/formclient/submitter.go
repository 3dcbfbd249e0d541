package formclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/moura-ar/portfolio/internal/api/dto/common"
	"github.com/moura-ar/portfolio/internal/api/dto/v1/contact"

	"github.com/samber/lo"
)

// DefaultSubmitTimeout bounds one submission including the response body.
const DefaultSubmitTimeout = 10 * time.Second

// ErrTimeout is returned when a submission is aborted by its deadline.
var ErrTimeout = errors.New("submission timed out")

// StatusError is a non-2xx answer from the contact endpoint.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Submission is a snapshot of the form at submit time.
type Submission struct {
	Name         string
	Email        string
	Message      string
	Budget       string
	ProjectTypes []string
	// Hidden holds UTM and honeypot inputs as rendered on the page.
	Hidden    map[string]string
	Timestamp time.Time
}

// Fields returns the form body, one value per field. Project types are
// folded into a single comma-joined value.
func (s Submission) Fields() map[string]string {
	fields := make(map[string]string, len(s.Hidden)+6)
	for k, v := range s.Hidden {
		fields[k] = v
	}
	fields[contact.FieldName] = s.Name
	fields[contact.FieldEmail] = s.Email
	fields[contact.FieldMessage] = s.Message
	fields[contact.FieldProjectType] = strings.Join(s.ProjectTypes, ", ")
	fields[contact.FieldTimestamp] = strconv.FormatInt(s.Timestamp.UnixMilli(), 10)
	if s.Budget != "" {
		fields[contact.FieldBudget] = s.Budget
	}
	return fields
}

// Submitter delivers a submission to the contact endpoint.
type Submitter interface {
	Submit(ctx context.Context, s Submission) (common.APIResponse, error)
}

// HTTPSubmitterConfig configures an HTTPSubmitter.
type HTTPSubmitterConfig struct {
	// Endpoint is the absolute URL of the contact API.
	Endpoint string
	// Origin is sent as the Origin header, the way a browser would.
	Origin    string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// HTTPSubmitter posts submissions as multipart/form-data.
type HTTPSubmitter struct {
	endpoint  string
	origin    string
	userAgent string
	timeout   time.Duration
	client    *http.Client
}

// NewHTTPSubmitter creates an HTTPSubmitter.
func NewHTTPSubmitter(cfg HTTPSubmitterConfig) *HTTPSubmitter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSubmitTimeout
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	return &HTTPSubmitter{
		endpoint:  cfg.Endpoint,
		origin:    cfg.Origin,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		client:    cfg.Client,
	}
}

// Submit posts s and decodes the JSON answer. A non-2xx status returns a
// *StatusError carrying the server's error message. A deadline hit returns
// ErrTimeout.
func (h *HTTPSubmitter) Submit(ctx context.Context, s Submission) (common.APIResponse, error) {
	var out common.APIResponse

	body, contentType, err := encodeMultipart(s.Fields())
	if err != nil {
		return out, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, body)
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if h.origin != "" {
		req.Header.Set("Origin", h.origin)
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return out, ErrTimeout
		}
		return out, fmt.Errorf("failed to send submission: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return out, ErrTimeout
		}
		return out, fmt.Errorf("failed to read response: %w", err)
	}
	// A body that is not JSON leaves out empty; the status still decides.
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, &StatusError{Status: resp.StatusCode, Message: out.Error}
	}
	return out, nil
}

func encodeMultipart(fields map[string]string) (io.Reader, string, error) {
	keys := lo.Keys(fields)
	sort.Strings(keys)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
