package formclient

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/moura-ar/portfolio/internal/api/dto/v1/contact"
	"github.com/moura-ar/portfolio/internal/api/validation"
	"github.com/moura-ar/portfolio/internal/logging"

	"github.com/samber/lo"
)

// FormID identifies the contact form in analytics.
const FormID = "contact-form"

// BannerDuration is how long a submission error stays on screen.
const BannerDuration = 8 * time.Second

// Messages shown to the visitor.
const (
	MsgSubmitFailed  = "Hubo un error al enviar el mensaje. Por favor, intentá nuevamente."
	MsgSubmitTimeout = "El envío tardó demasiado. Verificá tu conexión e intentá nuevamente."
	MsgSpamGuard     = "Error de validación. Refrescá la página e intentá nuevamente."
)

var (
	ErrSubmitting   = errors.New("form is already being submitted")
	ErrFormLocked   = errors.New("form was already sent")
	ErrSpamDetected = errors.New("spam detected")
	ErrNoSubmitter  = errors.New("submitter is required")
)

// clientHoneypots are the trap inputs checked before anything is sent.
var clientHoneypots = []string{"website", "email_confirm"}

var backgroundCtx = context.Background()

// State is the lifecycle position of the form.
type State string

const (
	StateIdle       State = "idle"
	StateNotReady   State = "not_ready"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	Submitter Submitter
	Tracker   *Tracker
	View      View
	Scheduler Scheduler
	Logger    *logging.Logger
	Referrer  string
	Now       func() time.Time
}

// Controller drives the contact form: per-field debounced validation, the
// submit gate and the submission lifecycle. A successful submission locks it
// for good.
type Controller struct {
	mu sync.Mutex

	submitter Submitter
	tracker   *Tracker
	view      View
	scheduler Scheduler
	debouncer *Debouncer
	logger    *logging.Logger
	referrer  string
	now       func() time.Time

	loadOnce     sync.Once
	state        State
	values       map[string]string
	hidden       map[string]string
	projectTypes []string
	isSubmitting bool
	unloaded     bool

	bannerTimer Timer
	bannerSeq   uint64
}

// NewController creates a Controller in StateIdle.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if cfg.Submitter == nil {
		return nil, ErrNoSubmitter
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = RealScheduler
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Tracker == nil {
		cfg.Tracker = NewTracker(TrackerConfig{Logger: cfg.Logger, Now: cfg.Now})
	}
	if cfg.View == nil {
		cfg.View = NopView{}
	}

	return &Controller{
		submitter: cfg.Submitter,
		tracker:   cfg.Tracker,
		view:      cfg.View,
		scheduler: cfg.Scheduler,
		debouncer: NewDebouncer(cfg.Scheduler),
		logger:    cfg.Logger,
		referrer:  cfg.Referrer,
		now:       cfg.Now,
		state:     StateIdle,
		values:    make(map[string]string),
		hidden:    make(map[string]string),
	}, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Hidden returns a copy of the hidden input values.
func (c *Controller) Hidden() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo.Assign(c.hidden)
}

// ProjectTypes returns the selected project types in selection order.
func (c *Controller) ProjectTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.projectTypes...)
}

// Load copies UTM parameters from the page query into the hidden inputs and
// evaluates the submit gate. Only the first call has any effect.
func (c *Controller) Load(query url.Values) {
	c.loadOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		for _, key := range contact.UTMKeys {
			if v := query.Get(key); v != "" {
				c.hidden[key] = v
				c.view.SetHiddenValue(key, v)
			}
		}
		c.recomputeLocked()
	})
}

// Focus records that the visitor entered field.
func (c *Controller) Focus(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closedLocked() {
		return
	}
	c.ensureStartedLocked()
	c.tracker.TrackFieldInteraction(backgroundCtx, field, ActionFocus)
}

// Input stores a keystroke-level value and schedules validation of tracked
// fields after their debounce delay.
func (c *Controller) Input(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closedLocked() {
		return
	}
	c.values[field] = value
	if field == FieldMessage {
		c.view.SetCounter(CharacterCounter(utf8.RuneCountInString(value)))
	}

	delay, tracked := DebounceDelays[field]
	if !tracked {
		return
	}
	c.ensureStartedLocked()
	c.debouncer.Debounce(field, delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closedLocked() {
			return
		}
		c.validateFieldLocked(field)
		c.recomputeLocked()
	})
}

// Blur validates field immediately, dropping any pending debounced check.
func (c *Controller) Blur(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closedLocked() {
		return
	}
	c.values[field] = value
	c.ensureStartedLocked()
	c.tracker.TrackFieldInteraction(backgroundCtx, field, ActionBlur)

	c.debouncer.Cancel(field)
	if _, tracked := DebounceDelays[field]; tracked {
		c.validateFieldLocked(field)
	}
	c.recomputeLocked()
}

// SetProjectType checks or unchecks a project-type pill.
func (c *Controller) SetProjectType(tag string, checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closedLocked() {
		return
	}
	if checked && !lo.Contains(c.projectTypes, tag) {
		c.projectTypes = append(c.projectTypes, tag)
	} else if !checked {
		c.projectTypes = lo.Without(c.projectTypes, tag)
	}

	c.ensureStartedLocked()
	c.tracker.TrackProjectTypeSelection(backgroundCtx, c.projectTypes)

	c.view.SetFieldError(FieldProjectType, validation.ValidateProjectTypes(c.projectTypes))
	c.recomputeLocked()
}

// SetHidden sets a hidden input such as a UTM value or a honeypot.
func (c *Controller) SetHidden(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closedLocked() {
		return
	}
	c.hidden[name] = value
	c.view.SetHiddenValue(name, value)
}

// Submit validates the form and sends it. It returns ErrSubmitting while a
// submission is in flight and ErrFormLocked after a success. An invalid form
// returns validation.FieldErrors without touching the network. Failures
// other than those leave the form ready for a retry.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()

	switch {
	case c.state == StateSuccess:
		c.mu.Unlock()
		return ErrFormLocked
	case c.isSubmitting:
		c.mu.Unlock()
		c.logger.Warn("Form is already being submitted")
		return ErrSubmitting
	}

	if errs := validateValues(c.values, c.projectTypes); len(errs) > 0 {
		field := firstInvalid(errs)
		c.view.SetFieldError(field, errs[field])
		c.view.SetFieldValid(field, false)
		c.view.FocusField(field)
		c.recomputeLocked()
		c.mu.Unlock()
		return errs
	}

	c.isSubmitting = true
	c.state = StateSubmitting
	c.hideBannerLocked()
	c.view.SetLoading(true)
	c.view.SetSubmitEnabled(false)
	c.ensureStartedLocked()
	c.tracker.TrackSubmitAttempt(ctx)

	trapped := lo.SomeBy(clientHoneypots, func(name string) bool { return c.hidden[name] != "" })
	submission := c.snapshotLocked()
	c.mu.Unlock()

	var err error
	if trapped {
		err = ErrSpamDetected
	} else {
		_, err = c.submitter.Submit(ctx, submission)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.SetLoading(false)

	if err == nil {
		c.tracker.TrackSubmitSuccess(ctx)
		c.state = StateSuccess
		c.debouncer.Stop()
		c.view.LockForm()
		return nil
	}

	c.logger.Error("Form submission error: %v", err)
	c.tracker.TrackSubmitError(ctx, err.Error())
	c.isSubmitting = false
	c.state = StateError
	c.showBannerLocked(bannerMessage(err))
	c.view.SetSubmitEnabled(true)
	return err
}

// Unload ends the page session. A touched form that was never sent reports
// form_abandon. Pending timers are cancelled, later events are ignored and
// queued analytics are delivered before it returns or ctx is done.
func (c *Controller) Unload(ctx context.Context) {
	c.mu.Lock()
	if c.unloaded {
		c.mu.Unlock()
		return
	}
	c.unloaded = true
	c.tracker.TrackAbandon(ctx)
	c.debouncer.Stop()
	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
		c.bannerTimer = nil
	}
	c.mu.Unlock()

	if err := c.tracker.Flush(ctx); err != nil {
		c.logger.Warn("Analytics not flushed on unload: %v", err)
	}
}

func (c *Controller) closedLocked() bool {
	return c.unloaded || c.state == StateSuccess
}

func (c *Controller) ensureStartedLocked() {
	if c.tracker.Started() {
		return
	}
	c.tracker.TrackFormStart(backgroundCtx, FormID, c.referrer, c.hidden)
}

func (c *Controller) validateFieldLocked(field string) {
	value := c.values[field]
	msg := validation.ValidateField(field, value)
	c.view.SetFieldError(field, msg)
	c.view.SetFieldValid(field, msg == "" && strings.TrimSpace(value) != "")

	if msg != "" {
		c.tracker.TrackFieldInteraction(backgroundCtx, field, ActionError)
		c.tracker.TrackValidationError(backgroundCtx, field, msg)
	}
}

// recomputeLocked derives the submit gate from the raw values. It leaves the
// Submitting and Success states alone.
func (c *Controller) recomputeLocked() bool {
	valid := len(validateValues(c.values, c.projectTypes)) == 0
	if c.state == StateSubmitting || c.state == StateSuccess {
		return valid
	}

	if valid {
		c.state = StateReady
	} else {
		c.state = StateNotReady
	}
	c.view.SetSubmitEnabled(valid)
	return valid
}

func (c *Controller) snapshotLocked() Submission {
	return Submission{
		Name:         c.values[FieldName],
		Email:        c.values[FieldEmail],
		Message:      c.values[FieldMessage],
		Budget:       c.values[FieldBudget],
		ProjectTypes: append([]string(nil), c.projectTypes...),
		Hidden:       lo.Assign(c.hidden),
		Timestamp:    c.now(),
	}
}

func (c *Controller) showBannerLocked(message string) {
	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
	}
	c.bannerSeq++
	seq := c.bannerSeq

	c.view.ShowBanner(message)
	c.bannerTimer = c.scheduler.AfterFunc(BannerDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.bannerSeq || c.unloaded {
			return
		}
		c.bannerTimer = nil
		c.view.HideBanner()
		if c.state == StateError {
			c.recomputeLocked()
		}
	})
}

func (c *Controller) hideBannerLocked() {
	if c.bannerTimer == nil {
		return
	}
	c.bannerTimer.Stop()
	c.bannerTimer = nil
	c.bannerSeq++
	c.view.HideBanner()
}

func bannerMessage(err error) string {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return MsgSubmitTimeout
	case errors.Is(err, ErrSpamDetected):
		return MsgSpamGuard
	default:
		return MsgSubmitFailed
	}
}
