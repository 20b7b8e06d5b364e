package smtp

import "time"

// Config holds SMTP transport configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host        string        `env:"SMTP_HOST" envDefault:"localhost"`
	Username    string        `env:"SMTP_USERNAME"`
	Password    string        `env:"SMTP_PASSWORD"`
	SenderEmail string        `env:"SMTP_FROM_EMAIL"`
	SenderName  string        `env:"SMTP_FROM_NAME"`
	Port        int           `env:"SMTP_PORT" envDefault:"587"`
	Timeout     time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
	// TLS requires STARTTLS instead of upgrading opportunistically.
	TLS bool `env:"SMTP_TLS" envDefault:"false"`
}
