package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// EmailMessageKey is the log attribute holding a logged message.
const EmailMessageKey = "email_message"

// LogSender implements Sender by logging messages instead of delivering
// them. Paired with a report log handler the message body is previewed in
// a sandboxed frame.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender writing to logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, email *Email) error {
	s.logger.DebugContext(ctx, "E-mail message log",
		slog.Group(EmailMessageKey,
			slog.String("headers", Headers(email)),
			slog.String("subject", email.Subject),
			slog.String("body", email.HTML),
		),
	)
	return nil
}

// Headers formats the envelope of email as RFC 5322 style header lines.
func Headers(email *Email) string {
	var b strings.Builder
	line := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
	}
	line("From", email.From)
	line("To", strings.Join(email.To, ", "))
	line("Cc", strings.Join(email.CC, ", "))
	line("Bcc", strings.Join(email.BCC, ", "))
	line("Reply-To", email.ReplyTo)
	line("Subject", email.Subject)
	for _, name := range slices.Sorted(maps.Keys(email.Headers)) {
		line(name, email.Headers[name])
	}
	for _, a := range email.Attachments {
		line("X-Attachment", fmt.Sprintf("%s (%s, %d bytes)", a.Filename, a.ContentType, len(a.Content)))
	}
	return strings.TrimRight(b.String(), "\n")
}
