package mailer

import "fmt"

// Header names set on report e-mails.
const (
	HeaderErrorID  = "X-Error-Id"
	HeaderSeverity = "X-Error-Severity"
)

// Tags are provider labels attached to a message. A struct{}{} value marks
// a presence-only tag; providers that need a value send "true".
type Tags map[string]any

// SimpleTags creates presence-only tags.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// With returns a copy of t with name set to value. Empty values are skipped.
func (t Tags) With(name string, value any) Tags {
	out := make(Tags, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	if s, ok := value.(string); ok && s == "" {
		return out
	}
	out[name] = value
	return out
}

// Recipient formats an RFC 5322 address: "Name <addr>", or addr alone
// when name is empty.
func Recipient(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

// Email is a message ready for a Sender.
type Email struct {
	Headers     map[string]string
	Tags        Tags
	Subject     string
	HTML        string
	Text        string // plain alternative; senders may derive one
	From        string
	ReplyTo     string
	To          []string
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// Attachment is a file sent along with a message, e.g. the report as a
// standalone HTML document.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Content     []byte
}
