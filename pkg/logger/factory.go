package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrymomot/errorkit/pkg/report"
)

// Config holds the primary output settings.
type Config struct {
	// Level is the minimum severity written; notice, critical, alert and
	// emergency map onto custom slog levels.
	Level report.Severity `env:"LOG_LEVEL" envDefault:"debug"`

	// Format is "json" or "text".
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Option configures New.
type Option func(*options)

type options struct {
	out        io.Writer
	extractors []ContextExtractor
	handlers   []slog.Handler
}

// WithOutput replaces stdout as the primary destination.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithExtractors adds context extractors applied to every destination.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// WithHandler adds a destination next to the primary output,
// e.g. a ReportHandler or a Sentry handler.
func WithHandler(h slog.Handler) Option {
	return func(o *options) {
		if h != nil {
			o.handlers = append(o.handlers, h)
		}
	}
}

// New creates a logger writing to stdout (JSON by default) plus any extra handlers.
func New(cfg Config, opts ...Option) *slog.Logger {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	var handler slog.Handler = newOutputHandler(cfg, o.out)
	if len(o.handlers) > 0 {
		handler = append(fanout{handler}, o.handlers...)
	}
	return slog.New(NewContextHandler(handler, o.extractors...))
}

func newOutputHandler(cfg Config, w io.Writer) slog.Handler {
	hopts := &slog.HandlerOptions{
		Level:       cfg.Level.Level(),
		ReplaceAttr: replaceLevel,
	}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, hopts)
	}
	return slog.NewJSONHandler(w, hopts)
}

// replaceLevel prints custom levels by severity name instead of "INFO+2".
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok {
		a.Value = slog.StringValue(strings.ToUpper(report.SeverityFromLevel(lvl).String()))
	}
	return a
}
