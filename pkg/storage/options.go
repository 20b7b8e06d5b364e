package storage

import "time"

// Option configures Put operations.
type Option func(*putOptions)

// putOptions holds configuration for Put operations.
type putOptions struct {
	at          time.Time // Date used for the Y/m/d key partition
	prefix      string    // Path prefix (e.g., "error-reports")
	name        string    // Object name without extension
	contentType string    // Override default content type
}

// WithPrefix sets a path prefix for the uploaded object.
// Nested prefixes are allowed: WithPrefix("reports/api") results in
// "reports/api/{Y}/{m}/{d}/{name}.html".
func WithPrefix(prefix string) Option {
	return func(o *putOptions) {
		o.prefix = prefix
	}
}

// WithName sets the object name, typically the event ID.
// A random UUID is used when no name is given.
func WithName(name string) Option {
	return func(o *putOptions) {
		o.name = name
	}
}

// WithTime sets the date used for the key partition. Defaults to now.
func WithTime(at time.Time) Option {
	return func(o *putOptions) {
		o.at = at
	}
}

// WithContentType overrides the default text/html content type.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}
