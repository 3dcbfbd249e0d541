package validation

import (
	"fmt"
	"strings"

	"github.com/moura-ar/portfolio/internal/api/dto/v1/contact"

	"github.com/samber/lo"
)

// ProjectTypes is the catalogue of project categories offered on the form.
var ProjectTypes = map[string]string{
	"website":    "Sitio Web",
	"web-app":    "Web App",
	"ui-ux":      "UX/UI",
	"backend":    "Backend",
	"ai":         "IA/LLM",
	"mobile":     "App Móvil",
	"ecommerce":  "E-commerce",
	"consulting": "Consultoría",
}

// SplitProjectTypes flattens repeated and comma-joined project-type values
// into one ordered list of trimmed, non-empty tags.
func SplitProjectTypes(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// NormalizeContactForm trims every field, lower-cases the email and splits the
// project types. It does not validate.
func NormalizeContactForm(form contact.SubmissionForm) contact.FormData {
	return contact.FormData{
		Name:        strings.TrimSpace(form.Name),
		Email:       strings.ToLower(strings.TrimSpace(form.Email)),
		Message:     strings.TrimSpace(form.Message),
		ProjectType: SplitProjectTypes(form.ProjectTypes),
		Budget:      strings.TrimSpace(form.Budget),
	}
}

// ValidateContactForm normalizes and validates a submission. On failure the
// returned FieldErrors holds exactly one message per invalid field.
func ValidateContactForm(form contact.SubmissionForm) (contact.FormData, FieldErrors) {
	data := NormalizeContactForm(form)

	if err := validate.Struct(data); err != nil {
		if fieldErrs := FormatValidationError(err); len(fieldErrs) > 0 {
			return contact.FormData{}, fieldErrs
		}
		return contact.FormData{}, FieldErrors{"form": err.Error()}
	}

	return data, nil
}

// HoneypotFromForm extracts the bot-trap inputs, trimmed.
func HoneypotFromForm(form contact.SubmissionForm) contact.Honeypot {
	return contact.Honeypot{
		Website:      strings.TrimSpace(form.Website),
		EmailConfirm: strings.TrimSpace(form.EmailConfirm),
		Phone:        strings.TrimSpace(form.Phone),
		URL:          strings.TrimSpace(form.URL),
		Company:      strings.TrimSpace(form.Company),
	}
}

// ValidateHoneypot succeeds only when every trap field is empty.
func ValidateHoneypot(h contact.Honeypot) bool {
	return validate.Struct(h) == nil
}

// FilledHoneypotFields lists the trap fields that carry a value, for logging.
func FilledHoneypotFields(h contact.Honeypot) []string {
	values := map[string]string{
		"website":       h.Website,
		"email_confirm": h.EmailConfirm,
		"phone":         h.Phone,
		"url":           h.URL,
		"company":       h.Company,
	}
	return lo.Filter(contact.HoneypotFields, func(field string, _ int) bool {
		return values[field] != ""
	})
}

// ValidateRelayPayload checks the outbound payload against the shape the
// webhook receiver expects.
func ValidateRelayPayload(p contact.RelayPayload) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid relay payload: %w", err)
	}
	return nil
}
