package report

import "errors"

var (
	// ErrUnknownSeverity indicates a severity name that is not one of the eight levels.
	ErrUnknownSeverity = errors.New("report: unknown severity")

	// ErrUnknownCharset indicates a character set the encoder does not support.
	ErrUnknownCharset = errors.New("report: unknown charset")
)
