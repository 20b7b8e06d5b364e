package resend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/errorkit/pkg/mailer"
	"github.com/dmitrymomot/errorkit/pkg/sanitizer"
)

var (
	// ErrNoAPIKey is returned when the API key is empty.
	ErrNoAPIKey = errors.New("resend: api key is required")

	// ErrInvalidEndpoint is returned for an endpoint that is not an absolute URL.
	ErrInvalidEndpoint = errors.New("resend: invalid endpoint")
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	from   string
}

// New creates a Resend sender. No request is made.
func New(cfg Config) (*Sender, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	client := resend.NewClient(cfg.APIKey)
	if cfg.Endpoint != "" {
		base, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/") + "/")
		if err != nil || !base.IsAbs() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, cfg.Endpoint)
		}
		client.BaseURL = base
	}

	from := ""
	if cfg.SenderEmail != "" {
		from = mailer.Recipient(cfg.SenderName, cfg.SenderEmail)
	}
	return &Sender{client: client, from: from}, nil
}

// Send implements mailer.Sender. Reports without a plain text part get
// one stripped from the HTML body.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	from := email.From
	if from == "" {
		from = s.from
	}
	if from == "" {
		from = mailer.DefaultFrom()
	}

	text := email.Text
	if text == "" {
		text = sanitizer.StripHTML(email.HTML)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    text,
		ReplyTo: email.ReplyTo,
		Cc:      email.CC,
		Bcc:     email.BCC,
		Headers: email.Headers,
	}
	if len(email.Attachments) > 0 {
		req.Attachments = convertAttachments(email.Attachments)
	}
	if len(email.Tags) > 0 {
		req.Tags = convertTags(email.Tags)
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("%w: resend: %w", mailer.ErrSendFailed, err)
	}
	return nil
}

func convertAttachments(attachments []mailer.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	}
	return result
}

// convertTags maps tags onto Resend tags. Names and values may only hold
// ASCII letters, digits, underscores and dashes; other runes become "_".
func convertTags(tags mailer.Tags) []resend.Tag {
	result := make([]resend.Tag, 0, len(tags))
	for name, value := range tags {
		result = append(result, resend.Tag{
			Name:  tagSafe(name),
			Value: tagSafe(tagValue(value)),
		})
	}
	return result
}

func tagSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, s)
}

// tagValue converts any value to a string.
// Presence-only tags (struct{}{}) become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
