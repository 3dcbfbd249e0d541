package security

import (
	"regexp"
	"strings"
)

// DefaultAllowedOrigins are the production origins of the site.
var DefaultAllowedOrigins = []string{
	"https://moura.ar",
	"https://www.moura.ar",
}

// DevPorts are the ports a private-network origin may use during development.
var DevPorts = []string{"3000", "3001", "4321", "4322", "4323"}

var (
	loopbackOrigin = regexp.MustCompile(`^https?://(localhost|127\.0\.0\.1|\[::1\]):\d{1,5}$`)

	privateNetworkOrigin = regexp.MustCompile(
		`^https?://(192\.168\.\d{1,3}\.\d{1,3}|10\.\d{1,3}\.\d{1,3}\.\d{1,3}|172\.(1[6-9]|2\d|3[01])\.\d{1,3}\.\d{1,3}):(` +
			strings.Join(DevPorts, "|") + `)$`,
	)
)

// ValidateOrigin reports whether a request Origin header may submit the
// contact form. Production origins must match the allow-list exactly (case
// and port included). Loopback hosts (localhost, 127.0.0.1, [::1]) are
// accepted on any port, private network
// addresses only on the development ports. An empty or malformed origin is
// rejected.
func ValidateOrigin(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}

	if loopbackOrigin.MatchString(origin) {
		return true
	}

	if privateNetworkOrigin.MatchString(origin) {
		return true
	}

	for _, a := range allowed {
		if origin == a {
			return true
		}
	}
	return false
}
