package mailer

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	FallbackSubject string `env:"LOG_EMAIL_SUBJECT" envDefault:"Error report"`
	From            string `env:"LOG_EMAIL_FROM"`
}
