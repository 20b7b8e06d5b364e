package middlewares

import (
	"bytes"
	"io"
	"net/http"

	"github.com/dmitrymomot/errorkit/pkg/report"
)

// CaptureRequest returns middleware that keeps the request, and up to
// report.MaxCapturedBody bytes of its body, in the context so reports can
// show it after the handler consumed r.Body. The handler still reads the
// complete body.
func CaptureRequest() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body []byte
			if r.Body != nil && r.Body != http.NoBody {
				head, err := io.ReadAll(io.LimitReader(r.Body, report.MaxCapturedBody))
				if err == nil || len(head) > 0 {
					body = head
				}
				r.Body = readCloser{
					Reader: io.MultiReader(bytes.NewReader(head), r.Body),
					Closer: r.Body,
				}
			}

			ctx := report.ContextWithRequest(r.Context(), r, body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}
