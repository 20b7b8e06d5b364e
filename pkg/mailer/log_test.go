package mailer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/pkg/mailer"
)

func TestLogSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sender := mailer.NewLogSender(logger)

	err := sender.Send(context.Background(), &mailer.Email{
		From:    "app@example.com",
		To:      []string{"user@example.com"},
		Subject: "Welcome",
		HTML:    "<p>Hello</p>",
		Headers: map[string]string{"X-Campaign": "onboarding"},
	})
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "E-mail message log", record["msg"])
	assert.Equal(t, "DEBUG", record["level"])

	msg, ok := record[mailer.EmailMessageKey].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Welcome", msg["subject"])
	assert.Equal(t, "<p>Hello</p>", msg["body"])
	assert.Equal(t, "From: app@example.com\nTo: user@example.com\nSubject: Welcome\nX-Campaign: onboarding", msg["headers"])
}
