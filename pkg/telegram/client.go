package telegram

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultTimeout = 10 * time.Second

// Client sends documents and messages to one chat.
type Client struct {
	http     *http.Client
	token    string
	endpoint string
	channel  string
	user     string
	password string
	chatID   int64
}

// New validates cfg and creates a Client. No request is made.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}

	c := &Client{token: cfg.Token, endpoint: cfg.Endpoint}
	if err := c.setChat(cfg.ChatID); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if err := c.setProxy(transport, cfg.Proxy); err != nil {
		return nil, err
	}
	c.http = &http.Client{Transport: transport, Timeout: timeout}

	if c.endpoint == "" {
		c.endpoint = tgbotapi.APIEndpoint
	}
	return c, nil
}

func (c *Client) setChat(id string) error {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, "@") && len(id) > 1 {
		c.channel = id
		return nil
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidChatID, id)
	}
	c.chatID = n
	return nil
}

func (c *Client) setProxy(transport *http.Transport, p ProxyConfig) error {
	if p.Host == "" {
		return nil
	}

	switch strings.ToLower(p.Type) {
	case ProxyNginx:
		if !strings.HasPrefix(p.Host, "http") {
			return fmt.Errorf("%w: nginx host must be an http(s) URL", ErrInvalidProxy)
		}
		base := strings.TrimRight(p.Host, "/")
		if p.Port > 0 {
			base += ":" + strconv.Itoa(p.Port)
		}
		c.endpoint = base + "/bot%s/%s"
		c.user, c.password = p.User, p.Password
		return nil
	case "", ProxyHTTP, ProxySOCKS5:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProxy, p.Type)
	}

	if p.Port <= 0 {
		return fmt.Errorf("%w: port is required", ErrInvalidProxy)
	}
	scheme := ProxyHTTP
	if strings.EqualFold(p.Type, ProxySOCKS5) {
		scheme = ProxySOCKS5
	}
	proxyURL := &url.URL{Scheme: scheme, Host: net.JoinHostPort(p.Host, strconv.Itoa(p.Port))}
	if p.User != "" && p.Password != "" {
		proxyURL.User = url.UserPassword(p.User, p.Password)
	}
	transport.Proxy = http.ProxyURL(proxyURL)
	return nil
}

// SendDocument uploads r as a file named name with a plain-text caption.
func (c *Client) SendDocument(ctx context.Context, name string, r io.Reader, caption string) error {
	doc := tgbotapi.NewDocument(c.chatID, tgbotapi.FileReader{Name: name, Reader: r})
	doc.ChannelUsername = c.channel
	doc.Caption = caption
	if _, err := c.bot(ctx).Send(doc); err != nil {
		return fmt.Errorf("telegram: send document: %w", err)
	}
	return nil
}

// SendMessage posts a plain-text message.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ChannelUsername = c.channel
	if _, err := c.bot(ctx).Send(msg); err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	return nil
}

// bot builds a BotAPI bound to ctx without the getMe round trip
// tgbotapi.NewBotAPI performs.
func (c *Client) bot(ctx context.Context) *tgbotapi.BotAPI {
	bot := &tgbotapi.BotAPI{
		Token:  c.token,
		Client: &doer{ctx: ctx, client: c.http, user: c.user, password: c.password},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(c.endpoint)
	return bot
}

// doer attaches the call context and optional basic auth to every request.
type doer struct {
	ctx      context.Context
	client   *http.Client
	user     string
	password string
}

func (d *doer) Do(req *http.Request) (*http.Response, error) {
	req = req.WithContext(d.ctx)
	if d.user != "" && d.password != "" {
		req.SetBasicAuth(d.user, d.password)
	}
	return d.client.Do(req)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
