package sink

import (
	"context"
	"strings"

	"github.com/dmitrymomot/errorkit/pkg/report"
)

// Sink is a delivery destination for rendered reports.
type Sink interface {
	// Name identifies the sink in logs, metrics and re-entrancy suppression.
	Name() string
	// Deliver stores or sends one rendered report.
	Deliver(ctx context.Context, ev *report.Event, doc Document) error
}

// Document is a rendered report. HTML is always UTF-8; Charset is the
// character set byte-oriented sinks encode it to.
type Document struct {
	HTML    string
	Charset string
}

// Bytes returns the document encoded to its charset.
// An encoding failure falls back to the UTF-8 bytes.
func (d Document) Bytes() []byte {
	b, err := report.Encode(d.HTML, d.charset())
	if err != nil {
		return []byte(d.HTML)
	}
	return b
}

// ContentType returns the text/html media type with the document charset.
func (d Document) ContentType() string {
	return "text/html; charset=" + strings.ToLower(d.charset())
}

func (d Document) charset() string {
	if d.Charset == "" {
		return report.DefaultCharset
	}
	return d.Charset
}

// Channel binds a sink to its dispatch rules.
type Channel struct {
	Sink Sink

	// Level is the minimum severity delivered to the sink.
	Level report.Severity

	// Final stops delivery to later channels once this one succeeded
	// (bubble=false in configuration).
	Final bool

	// FullPage delivers a standalone HTML document instead of a fragment.
	FullPage bool
}
