package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownIP is the identifier used when no proxy header names the client.
const UnknownIP = "unknown"

// GetRealIP extracts the client IP set by the edge proxy. The site is always
// served behind one, so the socket address is never used: a request with no
// proxy headers is keyed as "unknown".
func GetRealIP(c *gin.Context) string {
	return RealIPFromHeader(c.Request.Header)
}

// RealIPFromHeader checks X-Forwarded-For (first entry), then X-Real-IP,
// then CF-Connecting-IP.
func RealIPFromHeader(h http.Header) string {
	if forwardedFor := h.Get("X-Forwarded-For"); forwardedFor != "" {
		// Format: client, proxy1, proxy2, ...
		clientIP, _, _ := strings.Cut(forwardedFor, ",")
		if clientIP = strings.TrimSpace(clientIP); clientIP != "" {
			return clientIP
		}
	}

	if ip := strings.TrimSpace(h.Get("X-Real-IP")); ip != "" {
		return ip
	}

	if ip := strings.TrimSpace(h.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	return UnknownIP
}
