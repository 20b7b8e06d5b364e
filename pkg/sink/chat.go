package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrymomot/errorkit/pkg/report"
	"github.com/dmitrymomot/errorkit/pkg/sanitizer"
	"github.com/dmitrymomot/errorkit/pkg/telegram"
)

// CaptionLimit is the maximum caption length in runes.
const CaptionLimit = 200

// FallbackTimeout bounds the plain-text notice sent after a failed upload.
// The notice gets its own budget because a hung upload may have used up the
// delivery deadline.
const FallbackTimeout = 5 * time.Second

const fallbackNotice = "There was an error sending exception report. Review file log."

// ChatClient uploads documents and posts messages to a chat.
// *telegram.Client implements it.
type ChatClient interface {
	SendDocument(ctx context.Context, name string, r io.Reader, caption string) error
	SendMessage(ctx context.Context, text string) error
}

var _ ChatClient = (*telegram.Client)(nil)

// ChatSink uploads each report as an HTML document with a short caption.
type ChatSink struct {
	client ChatClient
	temp   *TempFiles
	host   string
	name   string
}

// NewChatSink creates a chat sink. Reports are staged in temporary files
// under tempDir (os.TempDir when empty).
func NewChatSink(name string, client ChatClient, tempDir string) (*ChatSink, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if client == nil {
		return nil, ErrNilDependency
	}
	return &ChatSink{
		client: client,
		temp:   NewTempFiles(tempDir),
		host:   hostname(),
		name:   name,
	}, nil
}

func (s *ChatSink) Name() string { return s.name }

// Deliver writes doc to a temporary file and uploads it. When the upload
// fails a plain-text notice is posted instead; the upload error is still
// returned so the failure gets logged. The temporary file is removed on
// every path.
func (s *ChatSink) Deliver(ctx context.Context, ev *report.Event, doc Document) error {
	prefix := fmt.Sprintf("*%s* @ %s", ev.Severity.Label(), s.host)

	err := s.upload(ctx, ev, doc, prefix)
	if err == nil {
		return nil
	}
	err = fmt.Errorf("%w: %w", ErrAttachmentFailed, err)

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FallbackTimeout)
	defer cancel()
	if ferr := s.client.SendMessage(fctx, prefix+": "+fallbackNotice); ferr != nil {
		return errors.Join(err, ferr)
	}
	return err
}

func (s *ChatSink) upload(ctx context.Context, ev *report.Event, doc Document, prefix string) error {
	f, err := s.temp.Create("errorkit-*.html")
	if err != nil {
		return err
	}
	defer func() { _ = s.temp.Remove(f) }()

	if _, err := f.Write(doc.Bytes()); err != nil {
		return err
	}

	name := AttachmentName(ev)
	caption := sanitizer.Caption(prefix+": "+ev.Message, CaptionLimit)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	err = s.client.SendDocument(ctx, name, f, caption)
	if err == nil || !telegram.IsEncodingError(err) {
		return err
	}

	// The message broke caption encoding; the prefix alone is safe.
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		return errors.Join(err, serr)
	}
	if rerr := s.client.SendDocument(ctx, name, f, prefix); rerr != nil {
		return errors.Join(err, rerr)
	}
	return nil
}

// Close removes temporary files left by interrupted deliveries.
func (s *ChatSink) Close() error {
	return s.temp.Close()
}

// AttachmentName returns "<level>_message_<Y-m-d_H-i-s>.html" for ev.
func AttachmentName(ev *report.Event) string {
	at := ev.Time
	if at.IsZero() {
		at = time.Now()
	}
	return strings.ToLower(ev.Severity.String()) + "_message_" + at.Format("2006-01-02_15-04-05") + ".html"
}
