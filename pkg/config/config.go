package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/errorkit/pkg/mailer"
	"github.com/dmitrymomot/errorkit/pkg/mailer/resend"
	"github.com/dmitrymomot/errorkit/pkg/mailer/smtp"
	"github.com/dmitrymomot/errorkit/pkg/report"
	"github.com/dmitrymomot/errorkit/pkg/telegram"
)

// Channel drivers.
const (
	DriverFile     = "file"
	DriverEmail    = "email"
	DriverTelegram = "telegram"
	DriverS3       = "s3"
)

// Mail transports used by e-mail channels.
const (
	MailLog    = "log"
	MailSMTP   = "smtp"
	MailResend = "resend"
)

// Config is the error reporting configuration.
type Config struct {
	// Channels maps channel names to their settings.
	Channels map[string]Channel `yaml:"channels" toml:"channels"`

	// Charset is announced by full pages and used to encode reports.
	Charset string `env:"LOG_CHARSET" envDefault:"UTF-8" yaml:"charset" toml:"charset"`

	// TempDir stages chat attachments (os.TempDir when empty).
	TempDir string `env:"LOG_TEMP_DIR" yaml:"temp_dir" toml:"temp_dir"`

	// Stack lists the channels in delivery order. Empty means all
	// channels sorted by name.
	Stack StringList `env:"LOG_STACK" yaml:"stack" toml:"stack"`

	Roots Roots `envPrefix:"LOG_ROOT_" yaml:"roots" toml:"roots"`
	Mail  Mail  `yaml:"mail" toml:"mail"`

	// Telegram holds the defaults for telegram channels.
	Telegram telegram.Config `yaml:"-" toml:"-"`

	// Email holds the defaults for email channels.
	Email mailer.Config `yaml:"-" toml:"-"`

	// Receiver is the default receiver list for email channels.
	Receiver StringList `env:"LOG_EMAIL_RECEIVER" yaml:"receiver" toml:"receiver"`

	// Timeout bounds a single sink delivery.
	Timeout time.Duration `env:"LOG_SINK_TIMEOUT" envDefault:"10s" yaml:"timeout" toml:"timeout"`

	// MaxFiles is the default number of retained files for file channels.
	MaxFiles int `env:"LOG_MAX_FILES" envDefault:"30" yaml:"max_files" toml:"max_files"`

	// Level is the default minimum severity of channels.
	Level report.Severity `env:"LOG_LEVEL" envDefault:"debug" yaml:"level" toml:"level"`

	Debug              bool `env:"APP_DEBUG" yaml:"debug" toml:"debug"`
	IncludeRequestInfo bool `env:"LOG_INCLUDE_REQUEST_INFO" envDefault:"true" yaml:"include_request_info" toml:"include_request_info"`
	IncludeUserInfo    bool `env:"LOG_INCLUDE_USER_INFO" envDefault:"true" yaml:"include_user_info" toml:"include_user_info"`
}

// Roots override the paths used to colorize stack frames.
type Roots struct {
	Project string     `env:"PROJECT" yaml:"project" toml:"project"`
	App     string     `env:"APP" yaml:"app" toml:"app"`
	Vendor  StringList `env:"VENDOR" yaml:"vendor" toml:"vendor"`
}

// Mail selects the transport behind e-mail channels.
type Mail struct {
	Driver string        `env:"LOG_MAIL_DRIVER" envDefault:"log" yaml:"driver" toml:"driver"`
	SMTP   smtp.Config   `yaml:"smtp" toml:"smtp"`
	Resend resend.Config `yaml:"resend" toml:"resend"`
}

// Channel configures one sink. Keys not used by the driver are ignored.
type Channel struct {
	// Bubble false stops later channels once this one delivered.
	Bubble *bool `yaml:"bubble" toml:"bubble"`

	// FullPage wraps the report in a page shell. Defaults to true for
	// every driver except file.
	FullPage *bool `yaml:"full_page" toml:"full_page"`

	Driver string `yaml:"driver" toml:"driver"`

	// Level is the minimum severity name; empty uses Config.Level.
	Level string `yaml:"level" toml:"level"`

	// file
	Path      string `yaml:"path" toml:"path"`
	MaxFiles  int    `yaml:"max_files" toml:"max_files"`
	MaxSizeMB int    `yaml:"max_size" toml:"max_size"`

	// email
	Sender   string     `yaml:"sender" toml:"sender"`
	Subject  string     `yaml:"subject" toml:"subject"`
	Receiver StringList `yaml:"receiver" toml:"receiver"`

	// telegram
	Token  string               `yaml:"token" toml:"token"`
	ChatID string               `yaml:"chat_id" toml:"chat_id"`
	Proxy  telegram.ProxyConfig `yaml:"proxy" toml:"proxy"`

	// s3; Endpoint is also the telegram API URL format.
	Bucket    string `yaml:"bucket" toml:"bucket"`
	Prefix    string `yaml:"prefix" toml:"prefix"`
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	Region    string `yaml:"region" toml:"region"`
	AccessKey string `yaml:"access_key" toml:"access_key"`
	SecretKey string `yaml:"secret_key" toml:"secret_key"`
	ACL       string `yaml:"acl" toml:"acl"`
	PathStyle bool   `yaml:"path_style" toml:"path_style"`
}

// Load reads the environment and then, when path is not empty, the
// YAML or TOML file at path. File values override the environment.
func Load(path string) (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Decode(cfg, data, filepath.Ext(path)); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv builds a Config from defaults and the environment.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	return cfg, nil
}

// Decode merges a YAML (".yaml", ".yml") or TOML (".toml") document into cfg.
func Decode(cfg *Config, data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
