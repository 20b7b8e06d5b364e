package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/middlewares"
)

func serveRequestID(t *testing.T, req *http.Request, opts ...middlewares.RequestIDOption) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var seen string
	h := middlewares.RequestID(opts...)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middlewares.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		id, rec := serveRequestID(t, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, id)
		require.Equal(t, id, rec.Header().Get("X-Request-ID"))
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "existing-request-id-123")

		id, rec := serveRequestID(t, req)
		require.Equal(t, "existing-request-id-123", id)
		require.Equal(t, "existing-request-id-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("checks headers in order", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr")
		req.Header.Set("X-Trace", "trace")

		id, _ := serveRequestID(t, req, middlewares.WithRequestIDHeaders("X-Trace", "X-Correlation-ID"))
		require.Equal(t, "trace", id)
	})

	t.Run("uses custom generator and response header", func(t *testing.T) {
		t.Parallel()

		id, rec := serveRequestID(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace-ID"),
		)
		require.Equal(t, "fixed", id)
		require.Equal(t, "fixed", rec.Header().Get("X-Trace-ID"))
		require.Empty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("replaces malformed upstream ID", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"id with spaces", "line\nbreak", strings.Repeat("x", middlewares.MaxRequestIDLength+1)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header["X-Request-Id"] = []string{bad}

			id, _ := serveRequestID(t, req, middlewares.WithRequestIDGenerator(func() string { return "generated" }))
			require.Equal(t, "generated", id, bad)
		}
	})

	t.Run("empty response header disables echo", func(t *testing.T) {
		t.Parallel()

		id, rec := serveRequestID(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.WithRequestIDResponseHeader(""))
		require.NotEmpty(t, id)
		require.Empty(t, rec.Header())
	})
}

func TestGetRequestID(t *testing.T) {
	t.Parallel()

	require.Empty(t, middlewares.GetRequestID(context.Background()))

	ctx := middlewares.WithRequestID(context.Background(), "job-7")
	require.Equal(t, "job-7", middlewares.GetRequestID(ctx))
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := middlewares.RequestIDExtractor()

	_, ok := extract(context.Background())
	require.False(t, ok)

	var ctx context.Context
	h := middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "rid" }))(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { ctx = r.Context() }),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	attr, ok := extract(ctx)
	require.True(t, ok)
	require.Equal(t, "request_id", attr.Key)
	require.Equal(t, "rid", attr.Value.String())
}
