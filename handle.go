package errorkit

import (
	"net/http"

	"github.com/dmitrymomot/errorkit/internal"
	"github.com/dmitrymomot/errorkit/middlewares"
	"github.com/dmitrymomot/errorkit/pkg/httperr"
	"github.com/dmitrymomot/errorkit/pkg/report"
)

// HandlerFunc is an HTTP handler that returns its error instead of
// writing an error response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap adapts fn to http.Handler. A returned error goes to HandleError.
func (h *Handler) Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := internal.NewResponseWriter(w)
		if err := fn(rw, r); err != nil {
			h.HandleError(rw, r, err)
		}
	})
}

// Middleware captures the request for reports and turns panics into
// handled errors.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	inner := middlewares.CaptureRequest()(middlewares.Recover(h.HandleError)(next))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner.ServeHTTP(internal.NewResponseWriter(w), r)
	})
}

// HandleError reports err and writes the error response. Nothing is
// written when the handler already started the response.
func (h *Handler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	ctx := r.Context()

	ev := h.Report(ctx, err)

	if rw, ok := w.(interface{ Written() bool }); ok && rw.Written() {
		return
	}

	code, isHTTP := httperr.StatusCode(err)
	if !isHTTP {
		code = http.StatusInternalServerError
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.ErrorContext(ctx, "error response failed",
				"event_id", ev.ID,
				"panic", rec,
			)
			fallback(w, code)
		}
	}()

	for key, values := range httperr.HeadersOf(err) {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}

	if h.expectsJSON(r) {
		h.writeJSON(w, code, isHTTP, err, ev)
		return
	}
	h.writeHTML(w, r, code, isHTTP, err, ev)
}

func (h *Handler) writeHTML(w http.ResponseWriter, r *http.Request, code int, isHTTP bool, err error, ev *report.Event) {
	var page string
	switch {
	case h.debug:
		page = h.renderer.Render(r.Context(), ev, report.DebugOptions)
	case isHTTP:
		page = statusPage(h.renderer.Charset(), code, messageOf(err), ev.ID)
	default:
		page = statusPage(h.renderer.Charset(), code, "", ev.ID)
	}

	body, encErr := report.Encode(page, h.renderer.Charset())
	charset := h.renderer.Charset()
	if encErr != nil {
		body, charset = []byte(page), report.DefaultCharset
	}
	writeBody(w, code, "text/html; charset="+charset, body)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, isHTTP bool, err error, ev *report.Event) {
	msg := err.Error()
	if !isHTTP && !h.debug {
		msg = http.StatusText(code)
	} else if isHTTP {
		msg = messageOf(err)
	}
	writeBody(w, code, "application/json", jsonBody(msg, ev.ID))
}

// messageOf returns the user facing message of an HTTP error.
func messageOf(err error) string {
	if he := httperr.AsHTTPError(err); he != nil {
		if he.Message != "" {
			return he.Message
		}
		return he.StatusText()
	}
	return err.Error()
}

func writeBody(w http.ResponseWriter, code int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// fallback writes a plain status response and never panics.
func fallback(w http.ResponseWriter, code int) {
	defer func() { _ = recover() }()
	http.Error(w, http.StatusText(code), code)
}
