package httperr

import (
	"errors"
	"net/http"
)

// HTTPError is an error that carries an HTTP status code and response
// headers. Reports show the code; error responses use both.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Header is sent with the error response.
	Header http.Header

	// Message is the user-facing error message. A JSON document is passed
	// through as the body of JSON error responses.
	Message string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Code)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// Headers returns the response headers, never nil.
func (e *HTTPError) Headers() http.Header {
	if e.Header == nil {
		return http.Header{}
	}
	return e.Header
}

// Option configures an HTTPError.
type Option func(*HTTPError)

// New creates a new HTTPError with the given status code and message.
func New(code int, message string, opts ...Option) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithHeader adds a response header.
func WithHeader(key, value string) Option {
	return func(e *HTTPError) {
		if e.Header == nil {
			e.Header = http.Header{}
		}
		e.Header.Add(key, value)
	}
}

// WithError sets the underlying cause.
func WithError(err error) Option {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Convenience constructors for common HTTP errors.

func BadRequest(message string, opts ...Option) *HTTPError {
	return New(http.StatusBadRequest, message, opts...)
}

func Unauthorized(message string, opts ...Option) *HTTPError {
	return New(http.StatusUnauthorized, message, opts...)
}

func Forbidden(message string, opts ...Option) *HTTPError {
	return New(http.StatusForbidden, message, opts...)
}

func NotFound(message string, opts ...Option) *HTTPError {
	return New(http.StatusNotFound, message, opts...)
}

func MethodNotAllowed(message string, allow ...string) *HTTPError {
	e := New(http.StatusMethodNotAllowed, message)
	for _, m := range allow {
		WithHeader("Allow", m)(e)
	}
	return e
}

func Conflict(message string, opts ...Option) *HTTPError {
	return New(http.StatusConflict, message, opts...)
}

func Unprocessable(message string, opts ...Option) *HTTPError {
	return New(http.StatusUnprocessableEntity, message, opts...)
}

func TooManyRequests(message string, opts ...Option) *HTTPError {
	return New(http.StatusTooManyRequests, message, opts...)
}

func Internal(message string, opts ...Option) *HTTPError {
	return New(http.StatusInternalServerError, message, opts...)
}

func ServiceUnavailable(message string, opts ...Option) *HTTPError {
	return New(http.StatusServiceUnavailable, message, opts...)
}

// Helper functions for error inspection.

// StatusCoder is implemented by errors that map to an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// IsHTTPError reports whether err or any error it wraps carries a status code.
func IsHTTPError(err error) bool {
	_, ok := StatusCode(err)
	return ok
}

// AsHTTPError extracts the HTTPError from an error if present.
// Returns nil if the error is not an HTTPError.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// StatusCode returns the status of the first error in err's chain that
// has one. Codes outside 100-599 are ignored.
func StatusCode(err error) (int, bool) {
	var sc StatusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 100 && code <= 599 {
			return code, true
		}
	}
	return 0, false
}

// HeadersOf returns the response headers carried by err, if any.
func HeadersOf(err error) http.Header {
	var hh interface{ Headers() http.Header }
	if errors.As(err, &hh) {
		return hh.Headers()
	}
	return nil
}
