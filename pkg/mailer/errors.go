package mailer

import "errors"

var (
	ErrNoRecipient  = errors.New("mailer: no recipient")
	ErrNoContent    = errors.New("mailer: empty html body")
	ErrRenderFailed = errors.New("mailer: subject template failed")

	// ErrSendFailed wraps every error returned by a Sender.
	ErrSendFailed = errors.New("mailer: delivery failed")
)
