package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Well-known context keys.
const (
	ExceptionKey    = "exception"
	EmailMessageKey = "email_message"
)

// Field is one labeled context entry. Context keeps insertion order.
type Field struct {
	Value any
	Key   string
}

// Event is a single exception or log message being reported.
type Event struct {
	Time      time.Time
	Exception *Exception
	ID        string
	Message   string
	Channel   string
	Context   []Field
	Severity  Severity
}

// NewEvent builds an event stamped with a fresh ID and the current time.
// A context entry under ExceptionKey is flattened into Event.Exception and
// kept in context as *Exception; values that are not errors are coerced.
// A nil exception entry is dropped.
func NewEvent(sev Severity, message string, context ...Field) *Event {
	ev := &Event{
		ID:       uuid.NewString(),
		Time:     time.Now(),
		Severity: sev,
		Message:  message,
	}
	for _, f := range context {
		ev.With(f.Key, f.Value)
	}
	return ev
}

// FromError builds an error-severity event for err. The event message is
// the error message and the flattened chain is attached under ExceptionKey.
func FromError(err error, context ...Field) *Event {
	if err == nil {
		err = errors.New("")
	}
	fields := append([]Field{{Key: ExceptionKey, Value: err}}, context...)
	return NewEvent(Error, err.Error(), fields...)
}

// Lookup returns the first context value stored under key.
func (e *Event) Lookup(key string) (any, bool) {
	for _, f := range e.Context {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// With appends a context entry and returns the event. A nil value under
// ExceptionKey is ignored.
func (e *Event) With(key string, value any) *Event {
	if key == ExceptionKey {
		exc := asException(value)
		if exc == nil {
			return e
		}
		value = exc
		if e.Exception == nil {
			e.Exception = exc
		}
	}
	e.Context = append(e.Context, Field{Key: key, Value: value})
	return e
}

func asException(v any) *Exception {
	switch val := v.(type) {
	case *Exception:
		return val
	case error:
		return Flatten(val)
	case nil:
		return nil
	}
	return &Exception{Class: fmt.Sprintf("%T", v), Message: fmt.Sprint(v)}
}
