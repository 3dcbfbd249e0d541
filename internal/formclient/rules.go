package formclient

import (
	"fmt"
	"time"

	"github.com/moura-ar/portfolio/internal/api/validation"
)

// Tracked fields, in the order they appear on the page.
const (
	FieldName        = validation.FieldName
	FieldEmail       = validation.FieldEmail
	FieldMessage     = validation.FieldMessage
	FieldProjectType = validation.FieldProjectType
	FieldBudget      = "budget"
)

// TrackedFields are validated as the visitor types.
var TrackedFields = []string{FieldName, FieldEmail, FieldMessage}

var pageOrder = []string{FieldName, FieldEmail, FieldMessage, FieldProjectType}

// DebounceDelays is how long typing must pause before a field is validated.
var DebounceDelays = map[string]time.Duration{
	FieldName:    500 * time.Millisecond,
	FieldEmail:   800 * time.Millisecond,
	FieldMessage: 300 * time.Millisecond,
}

const (
	messageMaxLength    = 500
	counterWarningAbove = 400
	counterDangerAbove  = 450
)

// counterMilestones are the lengths announced to assistive technology.
var counterMilestones = map[int]bool{20: true, 100: true, 200: true, 400: true, 450: true}

// CounterLevel tints the message character counter.
type CounterLevel string

const (
	CounterNormal  CounterLevel = "normal"
	CounterWarning CounterLevel = "warning"
	CounterDanger  CounterLevel = "danger"
)

// Counter is the rendered state of the message character counter.
type Counter struct {
	Text     string
	Level    CounterLevel
	Announce bool
}

// CharacterCounter renders the counter for a message of n characters.
func CharacterCounter(n int) Counter {
	level := CounterNormal
	switch {
	case n > counterDangerAbove:
		level = CounterDanger
	case n > counterWarningAbove:
		level = CounterWarning
	}
	return Counter{
		Text:     fmt.Sprintf("%d / %d", n, messageMaxLength),
		Level:    level,
		Announce: counterMilestones[n],
	}
}

// validateValues checks every rule against raw values and returns the
// message for each failing field. Project types are checked as a set.
func validateValues(values map[string]string, projectTypes []string) validation.FieldErrors {
	errs := validation.FieldErrors{}
	for _, field := range TrackedFields {
		if msg := validation.ValidateField(field, values[field]); msg != "" {
			errs[field] = msg
		}
	}
	if msg := validation.ValidateProjectTypes(projectTypes); msg != "" {
		errs[FieldProjectType] = msg
	}
	return errs
}

// firstInvalid returns the first failing field in page order.
func firstInvalid(errs validation.FieldErrors) string {
	for _, field := range pageOrder {
		if _, ok := errs[field]; ok {
			return field
		}
	}
	return ""
}
