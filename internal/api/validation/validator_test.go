package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/moura-ar/portfolio/internal/api/dto/v1/contact"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() contact.SubmissionForm {
	return contact.SubmissionForm{
		Name:         "Juan Pérez",
		Email:        "juan@example.com",
		Message:      "Este es un mensaje de prueba de más de 20 caracteres",
		ProjectTypes: []string{"website", "ui-ux"},
		Budget:       "5000",
	}
}

func TestValidateContactForm_Valid(t *testing.T) {
	data, errs := ValidateContactForm(validForm())
	require.Nil(t, errs)

	assert.Equal(t, "Juan Pérez", data.Name)
	assert.Equal(t, "juan@example.com", data.Email)
	assert.Equal(t, []string{"website", "ui-ux"}, data.ProjectType)
	assert.Equal(t, "5000", data.Budget)
}

func TestValidateContactForm_Normalizes(t *testing.T) {
	form := validForm()
	form.Name = "   Ana María  "
	form.Email = "  Ana.Maria@Example.COM "
	form.Message = "\n  " + strings.Repeat("m", 20) + "  \n"
	form.ProjectTypes = []string{"website, ui-ux", " backend ", ""}

	data, errs := ValidateContactForm(form)
	require.Nil(t, errs)

	assert.Equal(t, "Ana María", data.Name)
	assert.Equal(t, "ana.maria@example.com", data.Email)
	assert.Equal(t, strings.Repeat("m", 20), data.Message)
	assert.Equal(t, []string{"website", "ui-ux", "backend"}, data.ProjectType)
}

func TestValidateContactForm_Name(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"accented", "José Ñandú", ""},
		{"apostrophe and hyphen", "O'Brien-Smith", ""},
		{"exactly two", "Al", ""},
		{"exactly fifty", strings.Repeat("a", 50), ""},
		{"too short", "X", "El nombre debe tener al menos 2 caracteres"},
		{"too short after trim", "  X  ", "El nombre debe tener al menos 2 caracteres"},
		{"empty", "", "El nombre debe tener al menos 2 caracteres"},
		{"too long", strings.Repeat("a", 51), "El nombre es muy largo (máximo 50 caracteres)"},
		{"digits", "Juan 3", "El nombre solo puede contener letras, espacios, guiones y apostrofes"},
		{"symbols", "Juan <script>", "El nombre solo puede contener letras, espacios, guiones y apostrofes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Name = tt.in
			_, errs := ValidateContactForm(form)
			if tt.want == "" {
				assert.Nil(t, errs)
				return
			}
			require.NotNil(t, errs)
			assert.Equal(t, tt.want, errs[FieldName])
			assert.Len(t, errs, 1)
		})
	}
}

func TestValidateContactForm_MessageBoundaries(t *testing.T) {
	tests := []struct {
		length int
		want   string
	}{
		{19, "El mensaje debe tener al menos 20 caracteres"},
		{20, ""},
		{500, ""},
		{501, "El mensaje es muy largo (máximo 500 caracteres)"},
	}

	for _, tt := range tests {
		form := validForm()
		form.Message = strings.Repeat("é", tt.length)
		_, errs := ValidateContactForm(form)
		if tt.want == "" {
			assert.Nil(t, errs, "length %d", tt.length)
			continue
		}
		require.NotNil(t, errs, "length %d", tt.length)
		assert.Equal(t, tt.want, errs[FieldMessage], "length %d", tt.length)
	}
}

func TestValidateContactForm_Email(t *testing.T) {
	form := validForm()
	form.Email = "invalid-email"
	_, errs := ValidateContactForm(form)
	require.NotNil(t, errs)
	assert.Equal(t, "Ingresá una dirección de email válida", errs[FieldEmail])
}

func TestValidateContactForm_ProjectTypes(t *testing.T) {
	form := validForm()
	form.ProjectTypes = nil
	_, errs := ValidateContactForm(form)
	require.NotNil(t, errs)
	assert.Equal(t, "Seleccioná al menos un tipo de proyecto", errs[FieldProjectType])

	form.ProjectTypes = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	_, errs = ValidateContactForm(form)
	require.NotNil(t, errs)
	assert.Equal(t, "Máximo 8 tipos de proyecto", errs[FieldProjectType])
}

func TestValidateContactForm_OneMessagePerField(t *testing.T) {
	_, errs := ValidateContactForm(contact.SubmissionForm{})
	require.NotNil(t, errs)

	assert.Equal(t, FieldErrors{
		FieldName:        "El nombre debe tener al menos 2 caracteres",
		FieldEmail:       "Ingresá una dirección de email válida",
		FieldMessage:     "El mensaje debe tener al menos 20 caracteres",
		FieldProjectType: "Seleccioná al menos un tipo de proyecto",
	}, errs)
	assert.Contains(t, errs.Error(), "email: Ingresá")
}

func TestValidateField(t *testing.T) {
	assert.Equal(t, "", ValidateField(FieldName, "Juan"))
	assert.Equal(t, "El nombre debe tener al menos 2 caracteres", ValidateField(FieldName, "J"))
	assert.Equal(t, "", ValidateField(FieldEmail, "a@b.co"))
	assert.Equal(t, "Ingresá una dirección de email válida", ValidateField(FieldEmail, "a@"))
	assert.Equal(t, "El mensaje debe tener al menos 20 caracteres", ValidateField(FieldMessage, "corto"))
	assert.Equal(t, "", ValidateField("budget", "anything"))

	assert.Equal(t, "Seleccioná al menos un tipo de proyecto", ValidateProjectTypes(nil))
	assert.Equal(t, "", ValidateProjectTypes([]string{"ai"}))
}

func TestValidateHoneypot(t *testing.T) {
	assert.True(t, ValidateHoneypot(contact.Honeypot{}))

	filled := []contact.Honeypot{
		{Website: "http://spam.example"},
		{EmailConfirm: "bot@example.com"},
		{Phone: "123"},
		{URL: "x"},
		{Company: "ACME"},
	}
	for _, h := range filled {
		assert.False(t, ValidateHoneypot(h), "%+v", h)
	}

	h := HoneypotFromForm(contact.SubmissionForm{Website: "   ", Company: " ACME "})
	assert.Equal(t, "", h.Website)
	assert.Equal(t, []string{"company"}, FilledHoneypotFields(h))
}

func TestValidateRelayPayload(t *testing.T) {
	payload := contact.RelayPayload{
		Name:        "Juan",
		Email:       "juan@example.com",
		Message:     "Hola, necesito un sitio web nuevo",
		ProjectType: "website, ui-ux",
		UTM:         contact.UTMParams{"utm_source": "newsletter"},
		Metadata: contact.Metadata{
			Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Format("2006-01-02T15:04:05.000Z07:00"),
			Source:    "moura.ar",
			UserAgent: "test",
			IP:        "203.0.113.9",
			Origin:    "https://moura.ar",
		},
	}
	require.NoError(t, ValidateRelayPayload(payload))

	bad := payload
	bad.Metadata.Source = "example.com"
	assert.Error(t, ValidateRelayPayload(bad))

	bad = payload
	bad.Metadata.Timestamp = "yesterday"
	assert.Error(t, ValidateRelayPayload(bad))

	bad = payload
	bad.ProjectType = ""
	assert.Error(t, ValidateRelayPayload(bad))
}

func TestProjectTypesCatalogue(t *testing.T) {
	for _, key := range []string{"website", "web-app", "ui-ux", "backend", "ai", "mobile", "ecommerce", "consulting"} {
		assert.Contains(t, ProjectTypes, key)
	}
}
