package formclient

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/moura-ar/portfolio/internal/api/dto/common"
)

// manualScheduler fires callbacks only when Advance moves its clock.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

func (s *manualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recordingView struct {
	mu            sync.Mutex
	errors        map[string]string
	valid         map[string]bool
	hidden        map[string]string
	counter       Counter
	submitEnabled bool
	loading       bool
	locked        bool
	banner        string
	focused       []string
}

func newRecordingView() *recordingView {
	return &recordingView{
		errors: make(map[string]string),
		valid:  make(map[string]bool),
		hidden: make(map[string]string),
	}
}

func (v *recordingView) SetFieldError(field, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors[field] = message
}

func (v *recordingView) SetFieldValid(field string, valid bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.valid[field] = valid
}

func (v *recordingView) SetHiddenValue(name, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden[name] = value
}

func (v *recordingView) SetCounter(c Counter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counter = c
}

func (v *recordingView) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitEnabled = enabled
}

func (v *recordingView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
}

func (v *recordingView) FocusField(field string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.focused = append(v.focused, field)
}

func (v *recordingView) LockForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.locked = true
}

func (v *recordingView) ShowBanner(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banner = message
}

func (v *recordingView) HideBanner() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banner = ""
}

func (v *recordingView) fieldError(field string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errors[field]
}

func (v *recordingView) currentBanner() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.banner
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error

	// tracker, when set, is flushed before every read so assertions see
	// everything queued so far.
	tracker *Tracker
}

func (s *recordingSink) flush() {
	if s.tracker != nil {
		_ = s.tracker.Flush(context.Background())
	}
}

func (s *recordingSink) Send(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) names() []string {
	s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.Name
	}
	return out
}

func (s *recordingSink) last(name string) (Event, bool) {
	s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Name == name {
			return s.events[i], true
		}
	}
	return Event{}, false
}

func (s *recordingSink) count(name string) int {
	n := 0
	for _, got := range s.names() {
		if got == name {
			n++
		}
	}
	return n
}

type stubSubmitter struct {
	mu    sync.Mutex
	calls []Submission
	fn    func(ctx context.Context, s Submission) error
}

func (s *stubSubmitter) Submit(ctx context.Context, sub Submission) (common.APIResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, sub)
	fn := s.fn
	s.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, sub); err != nil {
			return common.APIResponse{Success: false, Error: err.Error()}, err
		}
	}
	return common.APIResponse{Success: true, Message: common.MsgSubmissionAccepted}, nil
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// fixedClock advances only when told to.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// gatedSink holds every delivery until release is closed.
type gatedSink struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	sent    atomic.Int32
}

func newGatedSink() *gatedSink {
	return &gatedSink{entered: make(chan struct{}), release: make(chan struct{})}
}

func (s *gatedSink) Send(ctx context.Context, _ Event) error {
	s.once.Do(func() { close(s.entered) })
	select {
	case <-s.release:
		s.sent.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
