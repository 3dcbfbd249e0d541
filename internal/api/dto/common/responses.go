package common

// APIResponse is the wrapper for every JSON body the API writes.
//
//	{success: true, message}
//	{success: false, error}
//	{success: false, error, errors: {field: message}}
type APIResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// User-facing messages. Internal error text never reaches the client.
const (
	MsgSubmissionAccepted = "Mensaje enviado correctamente. Te responderemos en menos de 24 horas."
	MsgValidationFailed   = "Por favor, corregí los errores en el formulario."
	MsgOriginRejected     = "Origen no permitido."
	MsgMethodNotAllowed   = "Método no permitido. Solo se permiten requests POST."
	MsgTooManyRequests    = "Demasiadas solicitudes. Intentá nuevamente más tarde."
	MsgInternalError      = "Error interno del servidor. Por favor, intentá nuevamente."
)

// NewMessageResponse creates a success response with a simple message
func NewMessageResponse(message string) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
	}
}

// NewErrorResponse creates an error response with a single message
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// NewValidationErrorResponse creates an error response carrying per-field messages
func NewValidationErrorResponse(errors map[string]string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   MsgValidationFailed,
		Errors:  errors,
	}
}
