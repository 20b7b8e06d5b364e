package sink

import (
	"context"
	"os"

	"github.com/dmitrymomot/errorkit/pkg/mailer"
	"github.com/dmitrymomot/errorkit/pkg/report"
)

// EmailConfig configures an e-mail sink.
type EmailConfig struct {
	// Subject is a text/template over SubjectData. Empty uses the mailer fallback.
	Subject string `env:"LOG_EMAIL_SUBJECT"`

	// From overrides the mailer sender.
	From string `env:"LOG_EMAIL_FROM"`

	// To lists receivers; entries may be comma separated.
	To []string `env:"LOG_EMAIL_RECEIVER" envSeparator:","`
}

// SubjectData is available to the subject template.
type SubjectData struct {
	Level   string // "Error"
	Title   string // "Error Log"
	Message string
	Host    string
	Channel string
	ID      string
}

// EmailSink sends one HTML e-mail per report.
type EmailSink struct {
	mailer *mailer.Mailer
	host   string
	name   string
	cfg    EmailConfig
}

// NewEmailSink creates an e-mail sink sending through m.
func NewEmailSink(name string, m *mailer.Mailer, cfg EmailConfig) (*EmailSink, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if m == nil {
		return nil, ErrNilDependency
	}
	cfg.To = mailer.Recipients(cfg.To...)
	if len(cfg.To) == 0 {
		return nil, ErrNoRecipient
	}
	return &EmailSink{mailer: m, host: hostname(), name: name, cfg: cfg}, nil
}

func (s *EmailSink) Name() string { return s.name }

func (s *EmailSink) Deliver(ctx context.Context, ev *report.Event, doc Document) error {
	return s.mailer.Send(ctx, mailer.SendParams{
		Subject: s.cfg.Subject,
		From:    s.cfg.From,
		To:      s.cfg.To,
		HTML:    doc.HTML,
		Headers: map[string]string{
			mailer.HeaderErrorID:  ev.ID,
			mailer.HeaderSeverity: ev.Severity.String(),
		},
		Tags: mailer.SimpleTags("errorkit").
			With("severity", ev.Severity.String()).
			With("channel", ev.Channel),
		Data: SubjectData{
			Level:   ev.Severity.Label(),
			Title:   ev.Severity.Title(),
			Message: ev.Message,
			Host:    s.host,
			Channel: ev.Channel,
			ID:      ev.ID,
		},
	})
}

func hostname() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "localhost"
	}
	return host
}
