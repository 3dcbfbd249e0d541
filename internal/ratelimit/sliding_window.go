package ratelimit

import (
	"context"
	"sync"
	"time"
)

type record struct {
	count       int
	windowStart time.Time
}

// SlidingWindow is an in-memory Limiter. A window opens on the first request
// from an identifier and lasts a fixed duration; the counter resets on the
// first request after it has fully elapsed.
//
// State is per process. Several instances behind a load balancer each keep
// their own counters; use Redis for a shared limit.
type SlidingWindow struct {
	mu      sync.Mutex
	records map[string]*record
	limit   int
	window  time.Duration
	now     func() time.Time
}

// Option configures a SlidingWindow.
type Option func(*SlidingWindow)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(sw *SlidingWindow) {
		sw.now = now
	}
}

// NewSlidingWindow creates a limiter allowing limit requests per window.
// Non-positive values fall back to DefaultLimit and DefaultWindow.
func NewSlidingWindow(limit int, window time.Duration, opts ...Option) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	sw := &SlidingWindow{
		records: make(map[string]*record),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw
}

// Allow implements Limiter.
func (sw *SlidingWindow) Allow(_ context.Context, id string) (Status, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	rec, ok := sw.records[id]
	if !ok || sw.expired(rec, now) {
		sw.records[id] = &record{count: 1, windowStart: now}
		return Status{
			Allowed:   true,
			Limit:     sw.limit,
			Count:     1,
			Remaining: sw.limit - 1,
			ResetAt:   now.Add(sw.window),
		}, nil
	}

	if rec.count >= sw.limit {
		return Status{
			Allowed:   false,
			Limit:     sw.limit,
			Count:     rec.count,
			Remaining: 0,
			ResetAt:   rec.windowStart.Add(sw.window),
		}, nil
	}

	rec.count++
	return Status{
		Allowed:   true,
		Limit:     sw.limit,
		Count:     rec.count,
		Remaining: sw.limit - rec.count,
		ResetAt:   rec.windowStart.Add(sw.window),
	}, nil
}

// Status implements Limiter. It never mutates state.
func (sw *SlidingWindow) Status(_ context.Context, id string) (Status, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	rec, ok := sw.records[id]
	if !ok || sw.expired(rec, now) {
		return Status{
			Allowed:   true,
			Limit:     sw.limit,
			Remaining: sw.limit,
			ResetAt:   now.Add(sw.window),
		}, nil
	}

	remaining := sw.limit - rec.count
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Allowed:   remaining > 0,
		Limit:     sw.limit,
		Count:     rec.count,
		Remaining: remaining,
		ResetAt:   rec.windowStart.Add(sw.window),
	}, nil
}

// Sweep drops every record whose window has fully elapsed and returns how
// many were removed.
func (sw *SlidingWindow) Sweep() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	removed := 0
	for id, rec := range sw.records {
		if sw.expired(rec, now) {
			delete(sw.records, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (sw *SlidingWindow) Len() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.records)
}

func (sw *SlidingWindow) expired(rec *record, now time.Time) bool {
	return now.Sub(rec.windowStart) >= sw.window
}
