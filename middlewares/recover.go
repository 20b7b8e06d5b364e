package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/errorkit/pkg/report"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// PanicHandler writes the response for a recovered panic.
type PanicHandler func(w http.ResponseWriter, r *http.Request, err error)

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	Logger            *slog.Logger // Receives "panic recovered" (nil: not logged)
	StackSize         int          // Max stack trace size (default: 4096)
	DisablePrintStack bool         // Disable the raw stack trace
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables capturing the raw stack trace.
// Frames for reports are captured regardless.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// WithRecoverLogger logs recovered panics to l.
func WithRecoverLogger(l *slog.Logger) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.Logger = l
	}
}

// Recover returns middleware that recovers from panics and passes a
// *PanicError to onPanic. A nil onPanic responds with a bare 500.
// http.ErrAbortHandler is re-panicked so net/http can abort the response.
func Recover(onPanic PanicHandler, opts ...RecoverOption) func(http.Handler) http.Handler {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if onPanic == nil {
		onPanic = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				pe := &PanicError{
					Value: rec,
					// Skip this closure; runtime frames are dropped.
					Frames: report.Callers(1),
				}
				// Allocate buffer only if stack traces are enabled to avoid unnecessary memory allocation
				if !cfg.DisablePrintStack {
					stack := make([]byte, cfg.StackSize)
					pe.Stack = stack[:runtime.Stack(stack, false)]
				}

				if cfg.Logger != nil {
					attrs := []any{slog.Any("panic", rec)}
					if pe.Stack != nil {
						attrs = append(attrs, slog.String("stack", string(pe.Stack)))
					}
					cfg.Logger.ErrorContext(r.Context(), "panic recovered", attrs...)
				}

				onPanic(w, r, pe)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
