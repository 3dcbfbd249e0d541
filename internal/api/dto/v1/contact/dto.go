package contact

// Form field names as posted by the contact page.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldMessage     = "message"
	FieldProjectType = "project-type"
	FieldBudget      = "budget"
	FieldTimestamp   = "timestamp"
)

// HoneypotFields are hidden inputs a human never fills in.
var HoneypotFields = []string{"website", "email_confirm", "phone", "url", "company"}

// UTMKeys are the canonical attribution parameters carried through the form.
var UTMKeys = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id"}

// SubmissionForm is the raw multipart/urlencoded body of POST /api/contact.
type SubmissionForm struct {
	Name         string   `form:"name"`
	Email        string   `form:"email"`
	Message      string   `form:"message"`
	ProjectTypes []string `form:"project-type"`
	Budget       string   `form:"budget"`
	Timestamp    string   `form:"timestamp"`

	// Honeypot fields
	Website      string `form:"website"`
	EmailConfirm string `form:"email_confirm"`
	Phone        string `form:"phone"`
	URL          string `form:"url"`
	Company      string `form:"company"`
}

// FormData is a validated, normalized contact submission.
type FormData struct {
	Name        string   `json:"name" validate:"min=2,max=50,personname"`
	Email       string   `json:"email" validate:"email,max=254"`
	Message     string   `json:"message" validate:"min=20,max=500"`
	ProjectType []string `json:"projectType" validate:"min=1,max=8"`
	Budget      string   `json:"budget,omitempty"`
}

// Honeypot holds the bot-trap inputs of a submission.
type Honeypot struct {
	Website      string `json:"website" validate:"len=0"`
	EmailConfirm string `json:"email_confirm" validate:"len=0"`
	Phone        string `json:"phone" validate:"len=0"`
	URL          string `json:"url" validate:"len=0"`
	Company      string `json:"company" validate:"len=0"`
}

// UTMParams maps attribution keys (and "referrer") to their values.
type UTMParams map[string]string

// Metadata describes the request a submission arrived on.
type Metadata struct {
	Timestamp string `json:"timestamp" validate:"required,datetime=2006-01-02T15:04:05.000Z07:00"`
	Source    string `json:"source" validate:"eq=moura.ar"`
	UserAgent string `json:"userAgent" validate:"required"`
	IP        string `json:"ip" validate:"required"`
	Origin    string `json:"origin" validate:"required"`
}

// RelayPayload is the JSON body sent to the automation webhook.
type RelayPayload struct {
	Name        string    `json:"name" validate:"required"`
	Email       string    `json:"email" validate:"required,email"`
	Message     string    `json:"message" validate:"required"`
	ProjectType string    `json:"projectType" validate:"required"`
	Budget      string    `json:"budget,omitempty"`
	UTM         UTMParams `json:"utm"`
	Metadata    Metadata  `json:"metadata"`
}

// ContactResponse is returned for real and fabricated successes alike.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
