package mailer

import "context"

// Sender delivers a prepared Email. To, Subject and HTML are set by the
// Mailer before Send is called.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, email *Email) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, email *Email) error { return f(ctx, email) }
