package formclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/moura-ar/portfolio/internal/logging"

	"github.com/samber/lo"
)

// Analytics event names.
const (
	EventFormStart          = "form_start"
	EventFieldFocus         = "form_field_focus"
	EventFieldBlur          = "form_field_blur"
	EventFieldError         = "form_field_error"
	EventValidationError    = "form_validation_error"
	EventProjectSelected    = "form_project_selected"
	EventSubmitAttempt      = "form_submit_attempt"
	EventSubmitSuccess      = "form_submit_success"
	EventSubmitError        = "form_submit_error"
	EventFormCompletionTime = "form_completion_time"
	EventFormAbandon        = "form_abandon"
)

const (
	maxEventNameLength       = 50
	maxEventMessageLength    = 100
	maxQueuedEvents          = 64
	defaultAnalyticsDeadline = 3 * time.Second
)

// FieldAction is a field interaction reported to analytics.
type FieldAction string

const (
	ActionFocus FieldAction = "focus"
	ActionBlur  FieldAction = "blur"
	ActionError FieldAction = "error"
)

var fieldActionEvents = map[FieldAction]string{
	ActionFocus: EventFieldFocus,
	ActionBlur:  EventFieldBlur,
	ActionError: EventFieldError,
}

// Event is one analytics record.
type Event struct {
	Name string
	Data map[string]interface{}
}

// Sink delivers analytics events.
type Sink interface {
	Send(ctx context.Context, event Event) error
}

// FormTrackingState is the analytics view of one form session.
type FormTrackingState struct {
	StartTime            time.Time
	FieldsInteracted     []string
	ProjectTypesSelected []string
	ErrorCount           int
	HasSubmitted         bool
	HasAbandoned         bool
}

func (s *FormTrackingState) touch(field string) {
	if !lo.Contains(s.FieldsInteracted, field) {
		s.FieldsInteracted = append(s.FieldsInteracted, field)
	}
}

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	Sink      Sink
	Page      string
	UserAgent string
	Logger    *logging.Logger
	Now       func() time.Time
}

// Tracker records the form lifecycle. Tracking calls only update state and
// queue the event; a background worker hands queued events to the sink in
// order and exits once the queue is empty. Delivery failures are logged and
// never surface to the caller. Events are dropped once the form was submitted.
type Tracker struct {
	mu        sync.Mutex
	sink      Sink
	page      string
	userAgent string
	logger    *logging.Logger
	now       func() time.Time
	state     *FormTrackingState

	qmu      sync.Mutex
	queue    []delivery
	draining bool
}

// delivery is a queued event, or a flush marker when done is set.
type delivery struct {
	ctx   context.Context
	event Event
	done  chan struct{}
}

// NewTracker creates a Tracker. A nil sink discards events.
func NewTracker(cfg TrackerConfig) *Tracker {
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Tracker{
		sink:      cfg.Sink,
		page:      cfg.Page,
		userAgent: truncate(cfg.UserAgent, maxEventMessageLength),
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
}

// State returns a copy of the tracking state, or nil before the form started.
func (t *Tracker) State() *FormTrackingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return nil
	}
	cp := *t.state
	cp.FieldsInteracted = append([]string(nil), t.state.FieldsInteracted...)
	cp.ProjectTypesSelected = append([]string(nil), t.state.ProjectTypesSelected...)
	return &cp
}

// Started reports whether a form session is open.
func (t *Tracker) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != nil
}

// TrackFormStart opens a form session. It does nothing after a submission.
func (t *Tracker) TrackFormStart(ctx context.Context, formID, referrer string, utm map[string]string) {
	t.mu.Lock()
	if t.state != nil && t.state.HasSubmitted {
		t.mu.Unlock()
		return
	}
	t.state = &FormTrackingState{StartTime: t.now()}
	t.mu.Unlock()

	t.emit(ctx, EventFormStart, map[string]interface{}{
		"form_id":      formID,
		"referrer":     referrer,
		"utm_source":   utm["utm_source"],
		"utm_medium":   utm["utm_medium"],
		"utm_campaign": utm["utm_campaign"],
	})
}

// TrackFieldInteraction records a focus, blur or error on a field.
func (t *Tracker) TrackFieldInteraction(ctx context.Context, field string, action FieldAction) {
	t.mu.Lock()
	if !t.active() {
		t.mu.Unlock()
		return
	}
	t.state.touch(field)
	if action == ActionError {
		t.state.ErrorCount++
	}
	data := map[string]interface{}{
		"field_name":        field,
		"fields_interacted": len(t.state.FieldsInteracted),
		"total_errors":      t.state.ErrorCount,
		"time_since_start":  t.elapsed(),
	}
	t.mu.Unlock()

	t.emit(ctx, fieldActionEvents[action], data)
}

// TrackValidationError records the message shown for an invalid field.
func (t *Tracker) TrackValidationError(ctx context.Context, field, message string) {
	t.mu.Lock()
	if !t.active() {
		t.mu.Unlock()
		return
	}
	t.state.ErrorCount++
	data := map[string]interface{}{
		"field_name":       field,
		"error_message":    truncate(message, maxEventMessageLength),
		"total_errors":     t.state.ErrorCount,
		"time_since_start": t.elapsed(),
	}
	t.mu.Unlock()

	t.emit(ctx, EventValidationError, data)
}

// TrackProjectTypeSelection records the current set of selected project types.
func (t *Tracker) TrackProjectTypeSelection(ctx context.Context, selected []string) {
	t.mu.Lock()
	if !t.active() {
		t.mu.Unlock()
		return
	}
	t.state.ProjectTypesSelected = append([]string(nil), selected...)
	data := map[string]interface{}{
		"selected_types":   strings.Join(selected, ","),
		"selection_count":  len(selected),
		"time_since_start": t.elapsed(),
	}
	t.mu.Unlock()

	t.emit(ctx, EventProjectSelected, data)
}

// TrackSubmitAttempt records a submission that passed local validation.
func (t *Tracker) TrackSubmitAttempt(ctx context.Context) {
	t.mu.Lock()
	if !t.active() {
		t.mu.Unlock()
		return
	}
	data := t.summary("completion_time")
	t.mu.Unlock()

	t.emit(ctx, EventSubmitAttempt, data)
}

// TrackSubmitSuccess closes the session. Later events are dropped.
func (t *Tracker) TrackSubmitSuccess(ctx context.Context) {
	t.mu.Lock()
	if !t.active() {
		t.mu.Unlock()
		return
	}
	t.state.HasSubmitted = true
	data := t.summary("completion_time")
	completion := t.elapsed()
	t.mu.Unlock()

	t.emit(ctx, EventSubmitSuccess, data)
	t.emit(ctx, EventFormCompletionTime, map[string]interface{}{
		"completion_time": completion,
		"success":         true,
	})
}

// TrackSubmitError records a failed submission.
func (t *Tracker) TrackSubmitError(ctx context.Context, message string) {
	t.mu.Lock()
	if !t.active() {
		t.mu.Unlock()
		return
	}
	data := t.summary("completion_time")
	data["error_message"] = truncate(message, maxEventMessageLength)
	t.mu.Unlock()

	t.emit(ctx, EventSubmitError, data)
}

// TrackAbandon records that the visitor left a started, unsent form. It fires
// at most once per session.
func (t *Tracker) TrackAbandon(ctx context.Context) {
	t.mu.Lock()
	if !t.active() || t.state.HasAbandoned {
		t.mu.Unlock()
		return
	}
	t.state.HasAbandoned = true
	data := t.summary("time_spent")
	data["abandon_point"] = strings.Join(t.state.FieldsInteracted, ",")
	t.mu.Unlock()

	t.emit(ctx, EventFormAbandon, data)
}

// active must be called with mu held.
func (t *Tracker) active() bool {
	return t.state != nil && !t.state.HasSubmitted
}

func (t *Tracker) elapsed() int64 {
	return t.now().Sub(t.state.StartTime).Milliseconds()
}

func (t *Tracker) summary(elapsedKey string) map[string]interface{} {
	return map[string]interface{}{
		elapsedKey:          t.elapsed(),
		"fields_interacted": len(t.state.FieldsInteracted),
		"project_types":     strings.Join(t.state.ProjectTypesSelected, ","),
		"error_count":       t.state.ErrorCount,
	}
}

func (t *Tracker) emit(ctx context.Context, name string, data map[string]interface{}) {
	data["timestamp"] = t.now().UnixMilli()
	data["page"] = t.page
	data["user_agent"] = t.userAgent

	event := Event{Name: truncate(name, maxEventNameLength), Data: data}

	t.qmu.Lock()
	defer t.qmu.Unlock()
	if len(t.queue) >= maxQueuedEvents {
		t.logger.Warn("Analytics queue full, dropping %s", event.Name)
		return
	}
	t.pushLocked(delivery{ctx: context.WithoutCancel(ctx), event: event})
}

// Flush waits until every event queued so far was handed to the sink, or
// until ctx is done.
func (t *Tracker) Flush(ctx context.Context) error {
	done := make(chan struct{})

	t.qmu.Lock()
	if !t.draining {
		t.qmu.Unlock()
		return nil
	}
	t.pushLocked(delivery{done: done})
	t.qmu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) pushLocked(d delivery) {
	t.queue = append(t.queue, d)
	if !t.draining {
		t.draining = true
		go t.drain()
	}
}

func (t *Tracker) drain() {
	for {
		t.qmu.Lock()
		if len(t.queue) == 0 {
			t.draining = false
			t.qmu.Unlock()
			return
		}
		d := t.queue[0]
		t.queue = t.queue[1:]
		t.qmu.Unlock()

		t.deliver(d)
	}
}

func (t *Tracker) deliver(d delivery) {
	if d.done != nil {
		close(d.done)
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, defaultAnalyticsDeadline)
	defer cancel()
	if err := t.sink.Send(ctx, d.event); err != nil {
		t.logger.Warn("Analytics event %s not delivered: %v", d.event.Name, err)
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
