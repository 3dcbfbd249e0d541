package security

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SpamKeywords are matched case-insensitively anywhere in a message.
var SpamKeywords = []string{
	"bitcoin",
	"crypto",
	"investment",
	"loan",
	"viagra",
	"casino",
	"forex",
	"binary options",
	"get rich quick",
	"make money fast",
	"click here",
	"guaranteed",
	"free money",
}

// Reasons reported by SpamDetector.Check.
const (
	ReasonKeyword       = "keyword"
	ReasonURL           = "url"
	ReasonShouting      = "all_caps"
	ReasonRepeatedChars = "repeated_chars"
	ReasonCardNumber    = "card_number"
)

const (
	maxCapsRun     = 12
	maxRepeatedRun = 10
)

var (
	bareURLPattern  = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	capsRunPattern  = regexp.MustCompile(fmt.Sprintf(`[A-Z]{%d,}`, maxCapsRun))
	cardLikePattern = regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{4}\b`)
)

// SpamDetector flags contact messages that look like automated or abusive
// content.
type SpamDetector struct {
	keywords []string
}

// NewSpamDetector creates a detector. With no keywords it uses SpamKeywords.
func NewSpamDetector(keywords ...string) *SpamDetector {
	if len(keywords) == 0 {
		keywords = SpamKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &SpamDetector{keywords: lowered}
}

// Check reports whether message is spam and which rule matched first.
func (d *SpamDetector) Check(message string) (bool, string) {
	if ContainsSpamKeywords(message, d.keywords) {
		return true, ReasonKeyword
	}
	if bareURLPattern.MatchString(message) {
		return true, ReasonURL
	}
	if capsRunPattern.MatchString(message) {
		return true, ReasonShouting
	}
	if hasRepeatedRun(message, maxRepeatedRun) {
		return true, ReasonRepeatedChars
	}
	if cardLikePattern.MatchString(message) {
		return true, ReasonCardNumber
	}
	return false, ""
}

// ContainsSpamKeywords reports whether message contains any keyword,
// ignoring case.
func ContainsSpamKeywords(message string, keywords []string) bool {
	lower := strings.ToLower(message)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// hasRepeatedRun reports whether any non-space rune repeats n or more times in a row.
func hasRepeatedRun(s string, n int) bool {
	var prev rune = utf8.RuneError
	run := 0
	for _, r := range s {
		if r == prev && r != ' ' {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}
