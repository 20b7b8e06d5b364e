package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"

	"github.com/dmitrymomot/errorkit/pkg/report"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string `env:"SENTRY_RELEASE"`
	// MinLevel determines which severities are stored as Sentry logs.
	// Error and above always create Issues.
	MinLevel report.Severity `env:"SENTRY_LEVEL" envDefault:"warning"`
}

// NewSentryHandler initializes the Sentry SDK and returns a slog handler for it.
// It returns a nil handler and no error when DSN is empty.
func NewSentryHandler(cfg SentryConfig) (slog.Handler, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	}); err != nil {
		return nil, fmt.Errorf("logger: init sentry: %w", err)
	}

	return sentryslog.Option{
		EventLevel: severityLevels(report.Error), // Errors create Issues in Sentry
		LogLevel:   severityLevels(cfg.MinLevel), // Logs stored for context/search
	}.NewSentryHandler(context.Background()), nil
}

// NewWithSentry creates a logger that sends logs to both the primary output and Sentry.
// If DSN is empty, only the primary output is used (graceful fallback for local dev).
// If Sentry init fails, the failure is logged and the logger continues without it.
func NewWithSentry(cfg Config, scfg SentryConfig, opts ...Option) *slog.Logger {
	h, err := NewSentryHandler(scfg)
	if err != nil {
		log := New(cfg, opts...)
		log.Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return log
	}
	return New(cfg, append(opts, WithHandler(h))...)
}

// severityLevels lists the slog levels of from and every severity above it.
func severityLevels(from report.Severity) []slog.Level {
	var levels []slog.Level
	for s := from; s <= report.Emergency; s++ {
		levels = append(levels, s.Level())
	}
	return levels
}
