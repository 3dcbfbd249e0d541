package sanitization

import (
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x{0000}-\x{001F}\x{007F}-\x{009F}]`)

// jsonEscaper escapes in a fixed order: backslash first so the escapes added
// afterwards are not escaped again.
var jsonEscaper = []struct{ old, new string }{
	{`\`, `\\`},
	{`"`, `\"`},
	{"\n", `\n`},
	{"\r", `\r`},
	{"\t", `\t`},
}

// SanitizeForJSON makes a string safe to embed inside a JSON string literal
// that is assembled by hand. It trims, strips C0/C1 control characters, then
// escapes backslash, double quote, newline, carriage return and tab.
//
// Control characters are removed before escaping, so newlines and tabs in the
// input disappear rather than being escaped. The function is not idempotent:
// a second pass escapes the backslashes added by the first one.
func SanitizeForJSON(input string) string {
	if input == "" {
		return ""
	}

	safe := strings.TrimSpace(input)
	safe = controlChars.ReplaceAllString(safe, "")
	for _, r := range jsonEscaper {
		safe = strings.ReplaceAll(safe, r.old, r.new)
	}
	return safe
}

// SanitizeEmail lower-cases and trims an email address.
func SanitizeEmail(input string) string {
	return SanitizeForJSON(strings.ToLower(input))
}
