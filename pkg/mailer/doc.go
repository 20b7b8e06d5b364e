// Package mailer provides a universal email sending interface.
//
// The package separates message preparation from delivery so that error
// reports can be mailed through any provider.
//
// # Architecture
//
//   - Sender: Interface that email providers implement (SenderFunc adapts a func)
//   - Mailer: Fills sender address and subject template, then delegates to a Sender
//   - LogSender: Sender that logs messages instead of delivering them
//
// Providers live in subpackages: resend (Resend API) and smtp (any SMTP
// relay, via go-mail).
//
// # Usage
//
//	sender, err := smtp.New(smtp.Config{Host: "smtp.example.com", Port: 587})
//	if err != nil {
//		return err
//	}
//
//	m := mailer.New(sender, mailer.Config{FallbackSubject: "Error report"})
//
//	err = m.Send(ctx, mailer.SendParams{
//		To:      []string{"ops@example.com, dev@example.com"},
//		Subject: "{{.Level}} on {{.Host}}",
//		Data:    map[string]string{"Level": "Error", "Host": "web-1"},
//		HTML:    html,
//	})
//
// Recipients may be given as separate entries or as one comma-separated
// string. Without a configured sender the address errors@<hostname> is used;
// without any subject the message is titled "Log from <hostname>".
//
// # Logging instead of sending
//
// LogSender writes each message as a debug record named "E-mail message log"
// with an "email_message" group holding headers, subject and body:
//
//	m := mailer.New(mailer.NewLogSender(logger), cfg)
//
// # Errors
//
//   - ErrNoRecipient: No recipient specified
//   - ErrNoContent: No HTML content provided
//   - ErrRenderFailed: Subject template rendering failed
//   - ErrSendFailed: Email sending failed
package mailer
