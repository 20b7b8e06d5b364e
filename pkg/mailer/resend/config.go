package resend

// Config holds Resend API configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY" yaml:"api_key" toml:"api_key"`
	SenderEmail string `env:"RESEND_FROM_EMAIL" yaml:"sender_email" toml:"sender_email"`
	SenderName  string `env:"RESEND_FROM_NAME" yaml:"sender_name" toml:"sender_name"`
	// Endpoint overrides the API base URL, e.g. for a local relay.
	Endpoint string `env:"RESEND_ENDPOINT" yaml:"endpoint" toml:"endpoint"`
}
