package config_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/pkg/config"
	"github.com/dmitrymomot/errorkit/pkg/report"
	"github.com/dmitrymomot/errorkit/pkg/telegram"
)

func boolPtr(b bool) *bool { return &b }

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Level:    report.Debug,
		MaxFiles: 3,
		Charset:  "UTF-8",
		TempDir:  t.TempDir(),
		Channels: map[string]config.Channel{},
	}
}

func TestConfig_Order(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Channels: map[string]config.Channel{"zeta": {}, "alpha": {}, "mid": {}}}

	names, err := cfg.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)

	cfg.Stack = config.StringList{"zeta", "alpha"}
	names, err = cfg.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, names)

	cfg.Stack = config.StringList{"missing"}
	_, err = cfg.Order()
	require.ErrorIs(t, err, config.ErrUnknownChannel)
}

func TestConfig_BuildChannels(t *testing.T) {
	t.Parallel()

	t.Run("builds every driver", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(t)
		cfg.Receiver = config.StringList{"ops@example.com"}
		cfg.Channels["file"] = config.Channel{Path: filepath.Join(t.TempDir(), "errors.html")}
		cfg.Channels["mail"] = config.Channel{Driver: "email", Level: "error"}
		cfg.Channels["chat"] = config.Channel{
			Driver: "telegram",
			Token:  "123:abc",
			ChatID: "-100",
			Bubble: boolPtr(false),
		}
		cfg.Channels["archive"] = config.Channel{
			Driver:    "s3",
			Bucket:    "reports",
			AccessKey: "key",
			SecretKey: "secret",
			FullPage:  boolPtr(false),
		}

		channels, err := cfg.BuildChannels(slog.New(slog.DiscardHandler))
		require.NoError(t, err)
		require.Len(t, channels, 4)

		// Sorted: archive, chat, file, mail.
		assert.Equal(t, "archive", channels[0].Sink.Name())
		assert.False(t, channels[0].FullPage)

		assert.Equal(t, "chat", channels[1].Sink.Name())
		assert.True(t, channels[1].Final)
		assert.True(t, channels[1].FullPage)

		assert.Equal(t, "file", channels[2].Sink.Name())
		assert.False(t, channels[2].FullPage)
		assert.False(t, channels[2].Final)
		assert.Equal(t, report.Debug, channels[2].Level)

		assert.Equal(t, "mail", channels[3].Sink.Name())
		assert.Equal(t, report.Error, channels[3].Level)
		assert.True(t, channels[3].FullPage)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(t)
		cfg.Channels["x"] = config.Channel{Driver: "syslog"}

		_, err := cfg.BuildChannels(nil)
		require.ErrorIs(t, err, config.ErrUnknownDriver)
		require.ErrorIs(t, err, config.ErrInvalidChannel)
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(t)
		cfg.Channels["x"] = config.Channel{Level: "loud", Path: filepath.Join(t.TempDir(), "x.html")}

		_, err := cfg.BuildChannels(nil)
		require.ErrorIs(t, err, report.ErrUnknownSeverity)
	})

	t.Run("socks4 proxy is rejected", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(t)
		cfg.Channels["chat"] = config.Channel{
			Driver: "telegram",
			Token:  "123:abc",
			ChatID: "-100",
			Proxy:  telegram.ProxyConfig{Host: "10.0.0.1", Port: 1080, Type: telegram.ProxySOCKS4},
		}

		_, err := cfg.BuildChannels(nil)
		require.ErrorIs(t, err, telegram.ErrUnsupportedProxy)
	})

	t.Run("unknown mail driver", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(t)
		cfg.Mail.Driver = "pigeon"
		cfg.Channels["mail"] = config.Channel{Driver: "email", Receiver: config.StringList{"a@example.com"}}

		_, err := cfg.BuildChannels(nil)
		require.ErrorIs(t, err, config.ErrUnknownMailDriver)
	})

	t.Run("email without receivers", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(t)
		cfg.Channels["mail"] = config.Channel{Driver: "email"}

		_, err := cfg.BuildChannels(nil)
		require.Error(t, err)
	})
}

func TestConfig_Dispatcher(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "errors.html")
	cfg := baseConfig(t)
	cfg.IncludeRequestInfo = false
	cfg.Channels["file"] = config.Channel{Path: path, Level: "warning"}

	d, err := cfg.Dispatcher(slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	require.NoError(t, d.Dispatch(context.Background(), report.NewEvent(report.Info, "ignored")))
	require.NoError(t, d.Dispatch(context.Background(), report.FromError(errors.New("disk full"))))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disk full")
	assert.NotContains(t, string(data), "ignored")
	assert.NotContains(t, string(data), "<!DOCTYPE html>")
}

func TestConfig_Renderer(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Charset: "ISO-8859-1", Roots: config.Roots{App: "/srv/app"}}
	r := cfg.Renderer()
	assert.Equal(t, "ISO-8859-1", r.Charset())
}
