package redact

import (
	"maps"
	"regexp"
)

// Mask replaces every redacted value.
const Mask = "*****"

var (
	keyPattern   = regexp.MustCompile(`(?i)pass(word)?`)
	queryPattern = regexp.MustCompile(`(?im)(pass(?:word)?[^=&"]*?=)(?:[^&"\\\n]|\\.)*(&|$|")`)
)

// IsSensitiveKey reports whether values stored under key must be masked.
func IsSensitiveKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Map returns a copy of data with the values of password-like keys replaced by Mask.
// Nested maps are left untouched. A nil map is returned as nil.
func Map(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := maps.Clone(data)
	for key := range out {
		if IsSensitiveKey(key) {
			out[key] = Mask
		}
	}
	return out
}

// Strings is Map for string-valued maps such as parsed forms or cookies.
func Strings(data map[string][]string) map[string][]string {
	if data == nil {
		return nil
	}
	out := make(map[string][]string, len(data))
	for key, values := range data {
		if IsSensitiveKey(key) {
			masked := make([]string, len(values))
			for i := range masked {
				masked[i] = Mask
			}
			out[key] = masked
			continue
		}
		out[key] = values
	}
	return out
}

// QueryString masks the value of every pass=/password= parameter in s,
// keeping the delimiter that ends the value. A value ends at '&', at the end
// of a line or at an unescaped '"', so it also works on JSON text.
func QueryString(s string) string {
	return queryPattern.ReplaceAllString(s, "${1}"+Mask+"${2}")
}
