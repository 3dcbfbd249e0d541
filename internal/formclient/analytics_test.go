package formclient

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestTracker(sink *recordingSink) (*Tracker, *fixedClock) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := NewTracker(TrackerConfig{
		Sink:      sink,
		Page:      "/contacto",
		UserAgent: strings.Repeat("u", 150),
		Now:       clock.Now,
	})
	sink.tracker = tr
	return tr, clock
}

func TestTracker_DropsEventsBeforeStart(t *testing.T) {
	sink := &recordingSink{}
	tr, _ := newTestTracker(sink)
	ctx := context.Background()

	tr.TrackFieldInteraction(ctx, "name", ActionFocus)
	tr.TrackValidationError(ctx, "name", "bad")
	tr.TrackProjectTypeSelection(ctx, []string{"ai"})
	tr.TrackSubmitAttempt(ctx)
	tr.TrackSubmitSuccess(ctx)
	tr.TrackSubmitError(ctx, "boom")
	tr.TrackAbandon(ctx)

	assert.Empty(t, sink.names())
	assert.Nil(t, tr.State())
}

func TestTracker_CountsInteractionsAndErrors(t *testing.T) {
	sink := &recordingSink{}
	tr, clock := newTestTracker(sink)
	ctx := context.Background()

	tr.TrackFormStart(ctx, FormID, "", nil)
	tr.TrackFieldInteraction(ctx, "name", ActionFocus)
	tr.TrackFieldInteraction(ctx, "name", ActionBlur)
	tr.TrackFieldInteraction(ctx, "email", ActionError)
	clock.Add(1500 * time.Millisecond)
	tr.TrackValidationError(ctx, "email", "Ingresá una dirección de email válida")

	state := tr.State()
	require.NotNil(t, state)
	assert.Equal(t, []string{"name", "email"}, state.FieldsInteracted)
	assert.Equal(t, 2, state.ErrorCount)

	ev, ok := sink.last(EventValidationError)
	require.True(t, ok)
	assert.Equal(t, 2, ev.Data["total_errors"])
	assert.Equal(t, int64(1500), ev.Data["time_since_start"])
	assert.Equal(t, "/contacto", ev.Data["page"])
	assert.Len(t, ev.Data["user_agent"], 100)
	assert.Equal(t, clock.Now().UnixMilli(), ev.Data["timestamp"])
}

func TestTracker_TruncatesMessages(t *testing.T) {
	sink := &recordingSink{}
	tr, _ := newTestTracker(sink)
	ctx := context.Background()

	tr.TrackFormStart(ctx, FormID, "", nil)
	tr.TrackSubmitError(ctx, strings.Repeat("é", 120))

	ev, ok := sink.last(EventSubmitError)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("é", 100), ev.Data["error_message"])
}

func TestTracker_TruncatesEventNames(t *testing.T) {
	sink := &recordingSink{}
	tr, _ := newTestTracker(sink)

	tr.emit(context.Background(), strings.Repeat("x", 60), map[string]interface{}{})

	require.Len(t, sink.names(), 1)
	assert.Len(t, sink.names()[0], 50)
}

func TestTracker_SuccessClosesSession(t *testing.T) {
	sink := &recordingSink{}
	tr, _ := newTestTracker(sink)
	ctx := context.Background()

	tr.TrackFormStart(ctx, FormID, "", nil)
	tr.TrackSubmitAttempt(ctx)
	tr.TrackSubmitSuccess(ctx)
	tr.TrackSubmitSuccess(ctx)
	tr.TrackFieldInteraction(ctx, "name", ActionFocus)
	tr.TrackAbandon(ctx)
	tr.TrackFormStart(ctx, FormID, "", nil)

	assert.Equal(t, []string{
		EventFormStart,
		EventSubmitAttempt,
		EventSubmitSuccess,
		EventFormCompletionTime,
	}, sink.names())

	completion, _ := sink.last(EventFormCompletionTime)
	assert.Equal(t, true, completion.Data["success"])
}

func TestTracker_SinkErrorsAreSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("network down")}
	tr, _ := newTestTracker(sink)

	assert.NotPanics(t, func() {
		tr.TrackFormStart(context.Background(), FormID, "", nil)
	})
	assert.True(t, tr.Started())
	assert.Equal(t, []string{EventFormStart}, sink.names())
}

func TestNewTracker_Defaults(t *testing.T) {
	tr := NewTracker(TrackerConfig{})
	tr.TrackFormStart(context.Background(), FormID, "", nil)
	assert.True(t, tr.Started())
}

func TestTracker_DoesNotWaitForSink(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := newGatedSink()
	tr := NewTracker(TrackerConfig{Sink: sink})
	ctx := context.Background()

	tr.TrackFormStart(ctx, FormID, "", nil)
	<-sink.entered

	done := make(chan struct{})
	go func() {
		tr.TrackFieldInteraction(ctx, "name", ActionFocus)
		tr.TrackSubmitAttempt(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracking call waited for the sink")
	}
	assert.Equal(t, []string{"name"}, tr.State().FieldsInteracted)

	flushCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tr.Flush(flushCtx), context.DeadlineExceeded)

	close(sink.release)
	require.NoError(t, tr.Flush(ctx))
	assert.Equal(t, int32(3), sink.sent.Load())
}

func TestTracker_FlushWithNothingQueued(t *testing.T) {
	tr, _ := newTestTracker(&recordingSink{})
	assert.NoError(t, tr.Flush(context.Background()))
}
