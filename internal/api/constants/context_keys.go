package constants

// Gin context keys shared between middleware and handlers
const (
	// ContextKeyRequestID holds the request ID set by the RequestID middleware
	ContextKeyRequestID = "RequestID"

	// ContextKeyRateLimit holds the ratelimit.Status of the current request
	ContextKeyRateLimit = "rateLimit"

	// ContextKeyClientIP holds the identifier the contact limiter keyed on
	ContextKeyClientIP = "clientIP"
)
