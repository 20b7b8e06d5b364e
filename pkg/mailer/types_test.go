package mailer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/pkg/mailer"
)

func TestSimpleTags(t *testing.T) {
	t.Parallel()

	tags := mailer.SimpleTags("errorkit", "prod")
	assert.Equal(t, mailer.Tags{"errorkit": struct{}{}, "prod": struct{}{}}, tags)
	assert.Empty(t, mailer.SimpleTags())
}

func TestTags_With(t *testing.T) {
	t.Parallel()

	base := mailer.SimpleTags("errorkit")
	tags := base.With("severity", "error").With("channel", "").With("attempt", 2)

	assert.Equal(t, mailer.Tags{"errorkit": struct{}{}, "severity": "error", "attempt": 2}, tags)
	assert.Len(t, base, 1, "With must not modify the receiver")

	var empty mailer.Tags
	assert.Equal(t, mailer.Tags{"a": "b"}, empty.With("a", "b"))
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, addr, want string
	}{
		{"Ops", "ops@example.com", "Ops <ops@example.com>"},
		{"", "ops@example.com", "ops@example.com"},
		{"Error Bot", "errors@example.com", "Error Bot <errors@example.com>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mailer.Recipient(tt.name, tt.addr))
	}
}

func TestSenderFunc(t *testing.T) {
	t.Parallel()

	var got *mailer.Email
	m := mailer.New(mailer.SenderFunc(func(_ context.Context, email *mailer.Email) error {
		got = email
		return nil
	}), mailer.Config{From: "errors@example.com"})

	err := m.Send(context.Background(), mailer.SendParams{
		To:      []string{"ops@example.com"},
		HTML:    "<p>report</p>",
		Subject: "{{.}}",
		Data:    "Error Log",
		Headers: map[string]string{mailer.HeaderErrorID: "abc"},
		Tags:    mailer.SimpleTags("errorkit"),
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "Error Log", got.Subject)
	assert.Equal(t, "errors@example.com", got.From)
	assert.Equal(t, "abc", got.Headers[mailer.HeaderErrorID])
	assert.Contains(t, got.Tags, "errorkit")
}
