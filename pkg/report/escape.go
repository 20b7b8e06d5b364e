package report

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCharset is used when no charset is configured.
const DefaultCharset = "UTF-8"

// escape HTML-escapes s, replacing invalid UTF-8 sequences first.
func escape(s string) string {
	return html.EscapeString(strings.ToValidUTF8(s, "�"))
}

// nl2br escapes s and turns line breaks into <br> tags.
func nl2br(s string) string {
	s = strings.ReplaceAll(escape(s), "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br />\n")
}

// Encode converts a rendered UTF-8 document into charset. Runes the charset
// cannot represent become numeric character references.
func Encode(doc, charset string) ([]byte, error) {
	if charset == "" || isUTF8(charset) {
		return []byte(doc), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, charset)
	}
	out, err := encoding.HTMLEscapeUnsupported(enc.NewEncoder()).String(doc)
	if err != nil {
		return nil, fmt.Errorf("report: encode %s: %w", charset, err)
	}
	return []byte(out), nil
}

// ValidCharset reports whether charset is a known HTML encoding label.
func ValidCharset(charset string) bool {
	if isUTF8(charset) {
		return true
	}
	_, err := htmlindex.Get(charset)
	return err == nil
}

func isUTF8(charset string) bool {
	c := strings.ToLower(strings.TrimSpace(charset))
	return c == "utf-8" || c == "utf8"
}
