package sanitization

import "testing"

func TestSanitizeForJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "hola mundo", "hola mundo"},
		{"trims", "  hola  ", "hola"},
		{"controls removed before escaping", "Hello \"World\"\nNew line\tTab\\Backslash", `Hello \"World\"New lineTab\\Backslash`},
		{"c1 controls", "a\u0085b\u009fc\u007fd", "abcd"},
		{"nul", "a\x00b", "ab"},
		{"quotes only", `say "hi"`, `say \"hi\"`},
		{"unicode kept", "Ñandú — café", "Ñandú — café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeForJSON(tt.input); got != tt.want {
				t.Errorf("SanitizeForJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeForJSON_NotIdempotent(t *testing.T) {
	once := SanitizeForJSON(`a\b "c"`)
	twice := SanitizeForJSON(once)

	if once != `a\\b \"c\"` {
		t.Fatalf("first pass = %q", once)
	}
	if twice == once {
		t.Fatalf("expected second pass to escape again, got %q", twice)
	}
	if twice != `a\\\\b \\\"c\\\"` {
		t.Errorf("second pass = %q", twice)
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  Juan@Example.COM "); got != "juan@example.com" {
		t.Errorf("SanitizeEmail = %q", got)
	}
}
