package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	texttemplate "text/template"
)

// Mailer sends prepared HTML messages through a Sender, filling in the
// configured sender address and subject.
type Mailer struct {
	sender Sender
	config Config
}

// New creates a new Mailer with the given sender.
func New(sender Sender, cfg Config) *Mailer {
	return &Mailer{
		sender: sender,
		config: cfg,
	}
}

// SendParams contains parameters for sending an HTML message.
type SendParams struct {
	Data    any      // Subject template data
	Subject string   // Subject template, falls back to config
	HTML    string   // Rendered body
	From    string   // Override default sender
	To      []string // Recipients

	Headers     map[string]string
	Tags        Tags
	Attachments []Attachment
}

// Send fills the subject template and delivers the message.
// Subject resolution: params.Subject > config fallback > "Log from <host>".
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	to := Recipients(params.To...)
	if len(to) == 0 {
		return ErrNoRecipient
	}
	if params.HTML == "" {
		return ErrNoContent
	}

	subject := params.Subject
	if subject == "" {
		subject = m.config.FallbackSubject
	}
	if subject == "" {
		subject = "Log from " + hostname()
	}

	processedSubject, err := m.processSubject(subject, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	from := params.From
	if from == "" {
		from = m.config.From
	}
	if from == "" {
		from = DefaultFrom()
	}

	email := &Email{
		To:          to,
		Subject:     processedSubject,
		HTML:        params.HTML,
		From:        from,
		Headers:     params.Headers,
		Tags:        params.Tags,
		Attachments: params.Attachments,
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return nil
}

func (m *Mailer) processSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Option("missingkey=zero").Parse(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}

// DefaultFrom returns errors@<host>, the sender used when none is configured.
func DefaultFrom() string {
	return fmt.Sprintf("errors@%s", hostname())
}

// Recipients flattens addresses that may be comma separated and drops
// empty entries.
func Recipients(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				out = append(out, addr)
			}
		}
	}
	return out
}

func hostname() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "localhost"
	}
	return host
}
