package config

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/dmitrymomot/errorkit/pkg/mailer"
	"github.com/dmitrymomot/errorkit/pkg/mailer/resend"
	"github.com/dmitrymomot/errorkit/pkg/mailer/smtp"
	"github.com/dmitrymomot/errorkit/pkg/report"
	"github.com/dmitrymomot/errorkit/pkg/sink"
	"github.com/dmitrymomot/errorkit/pkg/storage"
	"github.com/dmitrymomot/errorkit/pkg/telegram"
)

// DefaultFilePath is used by file channels without a path.
const DefaultFilePath = "logs/errors.html"

// RenderOptions returns the request and user toggles for sink reports.
func (c *Config) RenderOptions() report.Options {
	return report.Options{
		IncludeRequestInfo: c.IncludeRequestInfo,
		IncludeUserInfo:    c.IncludeUserInfo,
	}
}

// Renderer creates a renderer using the configured charset and roots.
// opts are applied last.
func (c *Config) Renderer(opts ...report.Option) *report.Renderer {
	base := []report.Option{report.WithCharset(c.Charset)}
	if c.Roots.Project != "" || c.Roots.App != "" || len(c.Roots.Vendor) > 0 {
		roots := report.DefaultRoots()
		if c.Roots.Project != "" {
			roots.Project = c.Roots.Project
		}
		roots.App = c.Roots.App
		if len(c.Roots.Vendor) > 0 {
			roots.Vendor = c.Roots.Vendor
		}
		base = append(base, report.WithRoots(roots))
	}
	return report.New(append(base, opts...)...)
}

// Order returns the channel names in delivery order.
func (c *Config) Order() ([]string, error) {
	if len(c.Stack) == 0 {
		names := make([]string, 0, len(c.Channels))
		for name := range c.Channels {
			names = append(names, name)
		}
		slices.Sort(names)
		return names, nil
	}
	for _, name := range c.Stack {
		if _, ok := c.Channels[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, name)
		}
	}
	return c.Stack, nil
}

// BuildChannels builds the sinks in delivery order. logger receives messages
// of the log mail transport; nil uses slog.Default().
func (c *Config) BuildChannels(logger *slog.Logger) ([]sink.Channel, error) {
	order, err := c.Order()
	if err != nil {
		return nil, err
	}

	b := &builder{cfg: c, logger: logger}
	channels := make([]sink.Channel, 0, len(order))
	for _, name := range order {
		ch, err := b.channel(name, c.Channels[name])
		if err != nil {
			closeChannels(channels)
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidChannel, name, err)
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// Dispatcher builds the channels and a dispatcher over them using the
// configured renderer, timeout and render options. opts are applied last.
func (c *Config) Dispatcher(logger *slog.Logger, opts ...sink.Option) (*sink.Dispatcher, error) {
	channels, err := c.BuildChannels(logger)
	if err != nil {
		return nil, err
	}
	base := []sink.Option{
		sink.WithLogger(logger),
		sink.WithTimeout(c.Timeout),
		sink.WithRenderOptions(c.RenderOptions()),
	}
	return sink.NewDispatcher(c.Renderer(), channels, append(base, opts...)...), nil
}

func closeChannels(channels []sink.Channel) {
	for _, ch := range channels {
		if closer, ok := ch.Sink.(io.Closer); ok {
			_ = closer.Close()
		}
	}
}

type builder struct {
	cfg    *Config
	logger *slog.Logger
	mailer *mailer.Mailer
}

func (b *builder) channel(name string, ch Channel) (sink.Channel, error) {
	level := b.cfg.Level
	if ch.Level != "" {
		sev, err := report.ParseSeverity(ch.Level)
		if err != nil {
			return sink.Channel{}, err
		}
		level = sev
	}

	driver := strings.ToLower(ch.Driver)
	if driver == "" {
		driver = DriverFile
	}

	var (
		s   sink.Sink
		err error
	)
	switch driver {
	case DriverFile:
		s, err = b.file(name, ch)
	case DriverEmail:
		s, err = b.email(name, ch)
	case DriverTelegram:
		s, err = b.telegram(name, ch)
	case DriverS3:
		s, err = b.storage(name, ch)
	default:
		return sink.Channel{}, fmt.Errorf("%w: %s", ErrUnknownDriver, ch.Driver)
	}
	if err != nil {
		return sink.Channel{}, err
	}

	fullPage := driver != DriverFile
	if ch.FullPage != nil {
		fullPage = *ch.FullPage
	}
	return sink.Channel{
		Sink:     s,
		Level:    level,
		Final:    ch.Bubble != nil && !*ch.Bubble,
		FullPage: fullPage,
	}, nil
}

func (b *builder) file(name string, ch Channel) (sink.Sink, error) {
	cfg := sink.FileConfig{
		Path:      ch.Path,
		MaxFiles:  ch.MaxFiles,
		MaxSizeMB: ch.MaxSizeMB,
	}
	if cfg.Path == "" {
		cfg.Path = DefaultFilePath
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = b.cfg.MaxFiles
	}
	return sink.NewFileSink(name, cfg)
}

func (b *builder) email(name string, ch Channel) (sink.Sink, error) {
	m, err := b.mail()
	if err != nil {
		return nil, err
	}
	to := ch.Receiver
	if len(to) == 0 {
		to = b.cfg.Receiver
	}
	return sink.NewEmailSink(name, m, sink.EmailConfig{
		Subject: ch.Subject,
		From:    ch.Sender,
		To:      to,
	})
}

func (b *builder) mail() (*mailer.Mailer, error) {
	if b.mailer != nil {
		return b.mailer, nil
	}

	var sender mailer.Sender
	switch strings.ToLower(b.cfg.Mail.Driver) {
	case "", MailLog:
		sender = mailer.NewLogSender(b.logger)
	case MailSMTP:
		s, err := smtp.New(b.cfg.Mail.SMTP)
		if err != nil {
			return nil, err
		}
		sender = s
	case MailResend:
		s, err := resend.New(b.cfg.Mail.Resend)
		if err != nil {
			return nil, err
		}
		sender = s
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMailDriver, b.cfg.Mail.Driver)
	}

	b.mailer = mailer.New(sender, b.cfg.Email)
	return b.mailer, nil
}

func (b *builder) telegram(name string, ch Channel) (sink.Sink, error) {
	cfg := b.cfg.Telegram
	if ch.Token != "" {
		cfg.Token = ch.Token
	}
	if ch.ChatID != "" {
		cfg.ChatID = ch.ChatID
	}
	if ch.Endpoint != "" {
		cfg.Endpoint = ch.Endpoint
	}
	if ch.Proxy.Host != "" {
		cfg.Proxy = ch.Proxy
	}
	if b.cfg.Timeout > 0 {
		cfg.Timeout = b.cfg.Timeout
	}

	client, err := telegram.New(cfg)
	if err != nil {
		return nil, err
	}
	return sink.NewChatSink(name, client, b.cfg.TempDir)
}

func (b *builder) storage(name string, ch Channel) (sink.Sink, error) {
	cfg := storage.Config{
		Bucket:     ch.Bucket,
		AccessKey:  ch.AccessKey,
		SecretKey:  ch.SecretKey,
		Endpoint:   ch.Endpoint,
		Region:     ch.Region,
		DefaultACL: storage.ACL(ch.ACL),
		PathStyle:  ch.PathStyle,
	}
	store, err := storage.New(cfg)
	if err != nil {
		return nil, err
	}
	return sink.NewStorageSink(name, store, ch.Prefix)
}
