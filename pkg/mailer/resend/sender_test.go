package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/pkg/mailer"
)

type fakeAPI struct {
	body   map[string]any
	auth   string
	status int
	mu     sync.Mutex
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = r.Header.Get("Authorization")
	_ = json.NewDecoder(r.Body).Decode(&f.body)

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"invalid from"}`))
		return
	}
	_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
}

func newSender(t *testing.T, api *fakeAPI, cfg Config) *Sender {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg.APIKey = "re_test"
	cfg.Endpoint = srv.URL
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNoAPIKey)

	_, err = New(Config{APIKey: "re_x", Endpoint: "relay.local"})
	require.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("fills sender and text part", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{}
		s := newSender(t, api, Config{SenderEmail: "errors@example.com", SenderName: "Errors"})

		err := s.Send(context.Background(), &mailer.Email{
			To:      []string{"ops@example.com"},
			Subject: "Error Log",
			HTML:    "<style>h1{color:red}</style><h1>Disk &amp; quota</h1>",
			Tags:    mailer.Tags{"severity": "error", "channel name": "app.web"},
		})
		require.NoError(t, err)

		api.mu.Lock()
		defer api.mu.Unlock()
		assert.Equal(t, "Bearer re_test", api.auth)
		assert.Equal(t, "Errors <errors@example.com>", api.body["from"])
		assert.Equal(t, "Error Log", api.body["subject"])
		assert.Equal(t, "Disk & quota", api.body["text"])

		tags, ok := api.body["tags"].([]any)
		require.True(t, ok)
		assert.Len(t, tags, 2)
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{status: http.StatusUnprocessableEntity}
		s := newSender(t, api, Config{})

		err := s.Send(context.Background(), &mailer.Email{To: []string{"ops@example.com"}, Subject: "x", HTML: "<p>x</p>"})
		require.ErrorIs(t, err, mailer.ErrSendFailed)
	})
}

func TestTagSafe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "channel_name", tagSafe("channel name"))
	assert.Equal(t, "app_web-1", tagSafe("app.web-1"))
	assert.Equal(t, "true", tagValue(struct{}{}))
	assert.Equal(t, "42", tagValue(42))
}
