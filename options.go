package errorkit

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/errorkit/pkg/logger"
	"github.com/dmitrymomot/errorkit/pkg/report"
)

// Option configures a Handler.
type Option func(*Handler)

// WithDebug shows full error reports in responses.
// Reports sent to sinks always carry full details.
func WithDebug(debug bool) Option {
	return func(h *Handler) {
		h.debug = debug
	}
}

// WithLogger sets the logger for delivery problems.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger.OrDiscard(l)
	}
}

// WithRenderer sets the renderer for debug pages.
// Defaults to the dispatcher's renderer.
func WithRenderer(r *report.Renderer) Option {
	return func(h *Handler) {
		if r != nil {
			h.renderer = r
		}
	}
}

// WithDontReport replaces the should-not-report policy. An error matching
// any of fns is answered but not sent to the sinks. Without arguments
// every error is reported.
func WithDontReport(fns ...func(error) bool) Option {
	return func(h *Handler) {
		h.dontReport = fns
	}
}

// WithExpectsJSON replaces the check deciding whether a request gets a
// JSON error body. Defaults to ExpectsJSON.
func WithExpectsJSON(fn func(*http.Request) bool) Option {
	return func(h *Handler) {
		if fn != nil {
			h.expectsJSON = fn
		}
	}
}
