package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/pkg/logger"
	"github.com/dmitrymomot/errorkit/pkg/report"
)

type ctxKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return slog.Attr{}, false
	}
	return slog.String("request_id", id), true
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: report.Notice},
		logger.WithOutput(&buf),
		logger.WithExtractors(requestID, nil),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.InfoContext(ctx, "below threshold")
	log.Log(ctx, report.LevelNotice, "notice")
	log.Log(ctx, report.LevelCritical, "critical")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "NOTICE", lines[0]["level"])
	assert.Equal(t, "CRITICAL", lines[1]["level"])
	assert.Equal(t, "req-1", lines[1]["request_id"])
}

func TestNew_TextOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Format: "text"}, logger.WithOutput(&buf))
	log.Warn("careful", slog.Int("n", 2))

	assert.Contains(t, buf.String(), "level=WARNING")
	assert.Contains(t, buf.String(), `msg=careful n=2`)
}

func TestNew_FansOutToHandlers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := &recordingDispatcher{}
	log := logger.New(logger.Config{Level: report.Error},
		logger.WithOutput(&buf),
		logger.WithExtractors(requestID),
		logger.WithHandler(logger.NewReportHandler(d)),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-9")
	log.DebugContext(ctx, "only the report handler takes debug")

	assert.Empty(t, buf.String())
	ev := d.only(t)
	require.Len(t, ev.Context, 1)
	assert.Equal(t, report.Field{Key: "request_id", Value: "req-9"}, ev.Context[0])
}

func TestNewWithSentry_NoDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithSentry(logger.Config{}, logger.SentryConfig{}, logger.WithOutput(&buf))
	log.Error("still logged")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "still logged", lines[0]["msg"])

	h, err := logger.NewSentryHandler(logger.SentryConfig{})
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	assert.Same(t, log, logger.OrDiscard(nil))

	own := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, own, logger.OrDiscard(own))
}

func TestContextHandler_KeepsCallSiteAttr(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(logger.NewContextHandler(slog.NewJSONHandler(&buf, nil), requestID))

	ctx := context.WithValue(context.Background(), ctxKey{}, "from-ctx")
	log.InfoContext(ctx, "explicit", slog.String("request_id", "explicit-id"))
	log.InfoContext(ctx, "implicit")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "explicit-id", lines[0]["request_id"])
	assert.Equal(t, "from-ctx", lines[1]["request_id"])
}

func TestNewContextHandler_NoExtractors(t *testing.T) {
	t.Parallel()

	base := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	assert.Same(t, base, logger.NewContextHandler(base, nil))
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, nil)
	log := slog.New(logger.NewContextHandler(base, requestID)).
		With(slog.String("svc", "api")).
		WithGroup("g")

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-2")
	log.InfoContext(ctx, "hi", slog.Int("a", 1))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "api", lines[0]["svc"])
	group, ok := lines[0]["g"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 1, group["a"], 0)
	assert.Equal(t, "req-2", group["request_id"])
}
