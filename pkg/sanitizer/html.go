package sanitizer

import (
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	emailPolicy  *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips ALL HTML, returns plain text
		strictPolicy = bluemonday.StrictPolicy()

		// Rendered e-mails keep layout and inline styles but lose scripts,
		// event handlers and javascript: URLs.
		emailPolicy = bluemonday.UGCPolicy()
		emailPolicy.AllowStyling()
		emailPolicy.AllowElements("center", "font", "span", "div")
		emailPolicy.AllowAttrs("align", "bgcolor", "color", "width", "height").Globally()
	})
}

// StripHTML removes every tag and returns unescaped plain text.
func StripHTML(s string) string {
	initPolicies()
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// SanitizeEmail cleans an e-mail body for an in-report preview.
func SanitizeEmail(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}

// Caption builds a single-line plain-text caption of at most limit runes.
// Whitespace runs collapse to one space.
func Caption(s string, limit int) string {
	return Truncate(strings.Join(strings.Fields(StripHTML(s)), " "), limit)
}

// Truncate cuts s to at most limit runes without splitting a multi-byte
// sequence. Invalid UTF-8 is replaced first.
func Truncate(s string, limit int) string {
	s = strings.ToValidUTF8(s, "�")
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
