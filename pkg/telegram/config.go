package telegram

import "time"

// Proxy types.
const (
	ProxyHTTP   = "http"
	ProxySOCKS5 = "socks5"
	ProxySOCKS4 = "socks4"
	// ProxyNginx routes API calls through a reverse proxy base URL.
	ProxyNginx = "nginx"
)

// Config holds bot configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Token    string        `env:"LOG_TELEGRAM_API_KEY"`
	ChatID   string        `env:"LOG_TELEGRAM_CHAT_ID"`
	Endpoint string        `env:"LOG_TELEGRAM_ENDPOINT"` // API URL format with two %s verbs, defaults to the public API
	Timeout  time.Duration `env:"LOG_SINK_TIMEOUT" envDefault:"10s"`
	Proxy    ProxyConfig   `envPrefix:"LOG_TELEGRAM_PROXY_"`
}

// ProxyConfig describes how API calls leave the host.
type ProxyConfig struct {
	Host     string `env:"HOST" yaml:"host" toml:"host"`
	User     string `env:"USER" yaml:"user" toml:"user"`
	Password string `env:"PASSWORD" yaml:"password" toml:"password"`
	Type     string `env:"TYPE" yaml:"type" toml:"type"`
	Port     int    `env:"PORT" yaml:"port" toml:"port"`
}
