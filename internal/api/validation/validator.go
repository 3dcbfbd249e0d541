package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{00FF}\x{00D1}\x{00F1}\s'-]+$`)

// Field names used as keys of FieldErrors.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldMessage     = "message"
	FieldProjectType = "projectType"
)

// Tags applied to single form values. They mirror the struct tags on
// contact.FormData so the page controller and the API share one rule set.
var fieldTags = map[string]string{
	FieldName:        "min=2,max=50,personname",
	FieldEmail:       "email,max=254",
	FieldMessage:     "min=20,max=500",
	FieldProjectType: "min=1,max=8",
}

// fieldMessages maps a failed tag to the message shown next to the field.
var fieldMessages = map[string]map[string]string{
	FieldName: {
		"min":        "El nombre debe tener al menos 2 caracteres",
		"max":        "El nombre es muy largo (máximo 50 caracteres)",
		"personname": "El nombre solo puede contener letras, espacios, guiones y apostrofes",
	},
	FieldEmail: {
		"email": "Ingresá una dirección de email válida",
		"max":   "El email es muy largo",
	},
	FieldMessage: {
		"min": "El mensaje debe tener al menos 20 caracteres",
		"max": "El mensaje es muy largo (máximo 500 caracteres)",
	},
	FieldProjectType: {
		"min": "Seleccioná al menos un tipo de proyecto",
		"max": "Máximo 8 tipos de proyecto",
	},
}

// FieldErrors holds one human-readable message per invalid field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("personname", validatePersonName)
}

// validatePersonName checks that a name only holds letters, spaces, hyphens and apostrophes
func validatePersonName(fl validator.FieldLevel) bool {
	return nameRegex.MatchString(fl.Field().String())
}

// Struct validates any struct carrying `validate` tags with the shared
// validator instance.
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateField checks one trimmed string value against the rules of field
// and returns the message of the first rule it breaks, or "" when valid.
// Unknown fields are always valid.
func ValidateField(field, value string) string {
	tags, ok := fieldTags[field]
	if !ok || field == FieldProjectType {
		return ""
	}

	err := validate.Var(strings.TrimSpace(value), tags)
	if err == nil {
		return ""
	}
	return messageFor(field, err)
}

// ValidateProjectTypes checks the number of selected project types.
func ValidateProjectTypes(types []string) string {
	if types == nil {
		types = []string{}
	}
	err := validate.Var(types, fieldTags[FieldProjectType])
	if err == nil {
		return ""
	}
	return messageFor(FieldProjectType, err)
}

// FormatValidationError converts validator errors into FieldErrors, keeping
// the first failure reported for each field.
func FormatValidationError(err error) FieldErrors {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	out := make(FieldErrors, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = messageForTag(field, e.Tag())
	}
	return out
}

func messageFor(field string, err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return messageForTag(field, validationErrors[0].Tag())
	}
	return "Valor inválido"
}

func messageForTag(field, tag string) string {
	if msgs, ok := fieldMessages[field]; ok {
		if msg, ok := msgs[tag]; ok {
			return msg
		}
	}
	return "Valor inválido"
}
