package errorkit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/errorkit/pkg/config"
	"github.com/dmitrymomot/errorkit/pkg/httperr"
	"github.com/dmitrymomot/errorkit/pkg/logger"
	"github.com/dmitrymomot/errorkit/pkg/report"
	"github.com/dmitrymomot/errorkit/pkg/sink"
)

// Handler is the interception point for unhandled errors. It reports
// errors to the dispatcher and answers the request with an HTML page or a
// JSON body.
type Handler struct {
	dispatcher  *sink.Dispatcher
	renderer    *report.Renderer
	logger      *slog.Logger
	expectsJSON func(*http.Request) bool
	dontReport  []func(error) bool
	debug       bool
}

// New creates a Handler reporting to d. A nil dispatcher disables
// reporting; responses are still written.
func New(d *sink.Dispatcher, opts ...Option) *Handler {
	h := &Handler{
		dispatcher:  d,
		logger:      logger.Discard(),
		expectsJSON: ExpectsJSON,
		dontReport:  []func(error) bool{canceled, clientError},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.renderer == nil {
		if d != nil {
			h.renderer = d.Renderer()
		} else {
			h.renderer = report.New()
		}
	}
	return h
}

// FromConfig builds the dispatcher described by cfg and a Handler over it.
// Debug mode follows cfg.Debug unless opts override it.
func FromConfig(cfg *config.Config, log *slog.Logger, opts ...Option) (*Handler, error) {
	d, err := cfg.Dispatcher(log)
	if err != nil {
		return nil, err
	}
	base := []Option{WithDebug(cfg.Debug), WithLogger(log)}
	return New(d, append(base, opts...)...), nil
}

// Dispatcher returns the dispatcher, or nil when reporting is disabled.
func (h *Handler) Dispatcher() *sink.Dispatcher { return h.dispatcher }

// Debug reports whether error pages show full details.
func (h *Handler) Debug() bool { return h.debug }

// Close releases the sinks.
func (h *Handler) Close() error {
	if h.dispatcher == nil {
		return nil
	}
	return h.dispatcher.Close()
}

// ShouldReport reports whether err is sent to the sinks. Canceled
// contexts and HTTP errors below 500 are not reported unless the policy
// was replaced with WithDontReport.
func (h *Handler) ShouldReport(err error) bool {
	if err == nil {
		return false
	}
	for _, skip := range h.dontReport {
		if skip(err) {
			return false
		}
	}
	return true
}

// Report sends err to the sinks and returns the event. The event is
// built even when err is not reported, so responses can reference it.
func (h *Handler) Report(ctx context.Context, err error, fields ...report.Field) *report.Event {
	ev := report.FromError(err, fields...)
	if h.dispatcher == nil || !h.ShouldReport(err) {
		return ev
	}
	// Sink failures are logged by the dispatcher with the failing sink
	// suppressed; logging them again here would re-enter it.
	_ = h.dispatcher.Dispatch(ctx, ev)
	return ev
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func clientError(err error) bool {
	code, ok := httperr.StatusCode(err)
	return ok && code < http.StatusInternalServerError
}
