package telegram_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/pkg/telegram"
)

const okResponse = `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`

type call struct {
	path     string
	chatID   string
	caption  string
	text     string
	filename string
	content  string
	auth     string
}

type fakeAPI struct {
	mu      sync.Mutex
	calls   []call
	failDoc string
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	c := call{path: r.URL.Path, auth: r.Header.Get("Authorization")}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			c.chatID = r.FormValue("chat_id")
			c.caption = r.FormValue("caption")
			if file, header, err := r.FormFile("document"); err == nil {
				data, _ := io.ReadAll(file)
				c.filename = header.Filename
				c.content = string(data)
			}
		}
	} else {
		_ = r.ParseForm()
		c.chatID = r.FormValue("chat_id")
		c.text = r.FormValue("text")
	}

	f.mu.Lock()
	f.calls = append(f.calls, c)
	fail := f.failDoc
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail != "" && strings.HasSuffix(c.path, "/sendDocument") {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"`+fail+`"}`)
		return
	}
	_, _ = io.WriteString(w, okResponse)
}

func newServer(t *testing.T, api *fakeAPI) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SendDocument(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	srv := newServer(t, api)

	c, err := telegram.New(telegram.Config{Token: "123:abc", ChatID: "-10042", Endpoint: srv.URL + "/bot%s/%s"})
	require.NoError(t, err)

	err = c.SendDocument(context.Background(), "error_message.html", strings.NewReader("<h1>boom</h1>"), "*Error* @ web-1: boom")
	require.NoError(t, err)

	require.Len(t, api.calls, 1)
	got := api.calls[0]
	assert.Equal(t, "/bot123:abc/sendDocument", got.path)
	assert.Equal(t, "-10042", got.chatID)
	assert.Equal(t, "*Error* @ web-1: boom", got.caption)
	assert.Equal(t, "error_message.html", got.filename)
	assert.Equal(t, "<h1>boom</h1>", got.content)
}

func TestClient_SendMessageToChannel(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	srv := newServer(t, api)

	c, err := telegram.New(telegram.Config{Token: "t", ChatID: "@alerts", Endpoint: srv.URL + "/bot%s/%s"})
	require.NoError(t, err)
	require.NoError(t, c.SendMessage(context.Background(), "hello"))

	require.Len(t, api.calls, 1)
	assert.Equal(t, "/bott/sendMessage", api.calls[0].path)
	assert.Equal(t, "@alerts", api.calls[0].chatID)
	assert.Equal(t, "hello", api.calls[0].text)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{failDoc: "Bad Request: strings must be encoded in UTF-8"}
	srv := newServer(t, api)

	c, err := telegram.New(telegram.Config{Token: "t", ChatID: "1", Endpoint: srv.URL + "/bot%s/%s"})
	require.NoError(t, err)

	err = c.SendDocument(context.Background(), "x.html", strings.NewReader("x"), "caption")
	require.Error(t, err)
	assert.True(t, telegram.IsEncodingError(err))
	assert.False(t, telegram.IsEncodingError(nil))
}

func TestClient_NginxProxy(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	srv := newServer(t, api)

	c, err := telegram.New(telegram.Config{
		Token:  "t",
		ChatID: "1",
		Proxy:  telegram.ProxyConfig{Type: telegram.ProxyNginx, Host: srv.URL, User: "u", Password: "p"},
	})
	require.NoError(t, err)
	require.NoError(t, c.SendMessage(context.Background(), "via proxy"))

	require.Len(t, api.calls, 1)
	assert.Equal(t, "/bott/sendMessage", api.calls[0].path)
	assert.True(t, strings.HasPrefix(api.calls[0].auth, "Basic "))
}

func TestClient_ContextCanceled(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	srv := newServer(t, api)

	c, err := telegram.New(telegram.Config{Token: "t", ChatID: "1", Endpoint: srv.URL + "/bot%s/%s"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.SendMessage(ctx, "x"))
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     telegram.Config
		wantErr error
	}{
		{"missing token", telegram.Config{ChatID: "1"}, telegram.ErrNoToken},
		{"missing chat", telegram.Config{Token: "t"}, telegram.ErrInvalidChatID},
		{"bad chat", telegram.Config{Token: "t", ChatID: "chat"}, telegram.ErrInvalidChatID},
		{
			"socks4 rejected",
			telegram.Config{Token: "t", ChatID: "1", Proxy: telegram.ProxyConfig{Type: telegram.ProxySOCKS4, Host: "10.0.0.1", Port: 1080}},
			telegram.ErrUnsupportedProxy,
		},
		{
			"proxy without port",
			telegram.Config{Token: "t", ChatID: "1", Proxy: telegram.ProxyConfig{Type: telegram.ProxySOCKS5, Host: "10.0.0.1"}},
			telegram.ErrInvalidProxy,
		},
		{
			"nginx needs url",
			telegram.Config{Token: "t", ChatID: "1", Proxy: telegram.ProxyConfig{Type: telegram.ProxyNginx, Host: "proxy.local"}},
			telegram.ErrInvalidProxy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := telegram.New(tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := telegram.New(telegram.Config{
		Token:  "t",
		ChatID: "1",
		Proxy:  telegram.ProxyConfig{Type: telegram.ProxySOCKS5, Host: "10.0.0.1", Port: 1080, User: "u", Password: "p"},
	})
	assert.NoError(t, err)
}
