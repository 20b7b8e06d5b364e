package config

import "errors"

var (
	// ErrUnsupportedFormat indicates a config file extension other than .yaml, .yml or .toml.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")

	// ErrUnknownDriver indicates a channel driver other than file, email, telegram or s3.
	ErrUnknownDriver = errors.New("config: unknown channel driver")

	// ErrUnknownChannel indicates a stack entry naming a channel that is not defined.
	ErrUnknownChannel = errors.New("config: unknown channel")

	// ErrUnknownMailDriver indicates a mail transport other than log, smtp or resend.
	ErrUnknownMailDriver = errors.New("config: unknown mail driver")

	// ErrInvalidChannel indicates a channel that could not be built.
	ErrInvalidChannel = errors.New("config: invalid channel")
)
