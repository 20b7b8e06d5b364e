package smtp

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/errorkit/pkg/mailer"
)

// ErrNoHost is returned when the SMTP host is not configured.
var ErrNoHost = errors.New("smtp: host is required")

// Sender implements mailer.Sender over SMTP.
type Sender struct {
	config Config
}

// New creates a new SMTP sender.
func New(cfg Config) (*Sender, error) {
	if cfg.Host == "" {
		return nil, ErrNoHost
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Sender{config: cfg}, nil
}

func (s *Sender) client() (*mail.Client, error) {
	policy := mail.TLSOpportunistic
	if s.config.TLS {
		policy = mail.TLSMandatory
	}
	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTLSPolicy(policy),
	}
	if s.config.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.config.Timeout))
	}
	if s.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
		)
	}
	return mail.NewClient(s.config.Host, opts...)
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	msg, err := s.message(email)
	if err != nil {
		return err
	}

	client, err := s.client()
	if err != nil {
		return fmt.Errorf("smtp: failed to create client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}
	return nil
}

func (s *Sender) message(email *mailer.Email) (*mail.Msg, error) {
	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("smtp: invalid sender %q: %w", from, err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("smtp: invalid recipient: %w", err)
	}
	if len(email.CC) > 0 {
		if err := msg.Cc(email.CC...); err != nil {
			return nil, fmt.Errorf("smtp: invalid cc: %w", err)
		}
	}
	if len(email.BCC) > 0 {
		if err := msg.Bcc(email.BCC...); err != nil {
			return nil, fmt.Errorf("smtp: invalid bcc: %w", err)
		}
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, fmt.Errorf("smtp: invalid reply-to: %w", err)
		}
	}
	for name, value := range email.Headers {
		msg.SetGenHeader(mail.Header(name), value)
	}

	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	if email.Text != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, email.Text)
	}

	for _, a := range email.Attachments {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Content), opts...); err != nil {
			return nil, fmt.Errorf("smtp: failed to attach %s: %w", a.Filename, err)
		}
	}
	return msg, nil
}
