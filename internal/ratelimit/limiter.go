// Package ratelimit implements the per-identifier limiter in front of the
// contact endpoint.
package ratelimit

import (
	"context"
	"math"
	"strconv"
	"time"
)

// Defaults for the contact form.
const (
	DefaultLimit  = 5
	DefaultWindow = time.Hour
)

// Response header names.
const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
	HeaderUsed      = "X-RateLimit-Used"
)

// Limiter decides whether an identifier may make another request.
type Limiter interface {
	// Allow records a request for id and reports whether it is permitted.
	Allow(ctx context.Context, id string) (Status, error)
	// Status is a read-only view of the current window for id.
	Status(ctx context.Context, id string) (Status, error)
}

// Status is the state of one identifier's window.
type Status struct {
	Allowed   bool
	Limit     int
	Count     int
	Remaining int
	ResetAt   time.Time
}

// Headers renders the status as X-RateLimit-* response headers. Reset is
// the window end in Unix seconds, rounded up.
func (s Status) Headers() map[string]string {
	reset := int64(math.Ceil(float64(s.ResetAt.UnixMilli()) / 1000))
	return map[string]string{
		HeaderLimit:     strconv.Itoa(s.Limit),
		HeaderRemaining: strconv.Itoa(s.Remaining),
		HeaderReset:     strconv.FormatInt(reset, 10),
		HeaderUsed:      strconv.Itoa(s.Count),
	}
}

// RetryAfter is the time left until the window resets, never negative.
func (s Status) RetryAfter(now time.Time) time.Duration {
	if d := s.ResetAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
