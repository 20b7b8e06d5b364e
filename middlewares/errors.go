package middlewares

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/errorkit/pkg/report"
)

// PanicError represents a recovered panic.
type PanicError struct {
	Value  any            // The panic value
	Stack  []byte         // Raw stack trace (nil if disabled)
	Frames []report.Frame // Frames of the panicking goroutine, most recent first
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// StackFrames returns the frames captured at the panic site.
func (e *PanicError) StackFrames() []report.Frame {
	return e.Frames
}

// IsPanicError returns true if the error is a PanicError.
func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
