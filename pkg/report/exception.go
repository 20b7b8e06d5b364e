package report

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

const (
	maxChainDepth = 16
	maxStackDepth = 64
)

// Frame is one entry of a stack trace. Any field may be empty.
type Frame struct {
	File     string
	Class    string
	Type     string
	Function string
	Args     []Arg
	Line     int
}

// StackTracer is implemented by errors that carry their own stack frames.
type StackTracer interface {
	StackFrames() []Frame
}

// Exception is one node of a flattened error chain. It is built once by
// Flatten and must not be mutated afterwards.
type Exception struct {
	Previous   *Exception
	Headers    http.Header
	Class      string
	Message    string
	Trace      []Frame
	StatusCode int
}

// Chain returns the exception followed by its causes, oldest cause last.
func (e *Exception) Chain() []*Exception {
	var chain []*Exception
	for cur := e; cur != nil && len(chain) < maxChainDepth; cur = cur.Previous {
		chain = append(chain, cur)
	}
	return chain
}

// Flatten converts an error and its Unwrap chain into an Exception.
// Stack wrappers created by WithStack are folded into the node they wrap.
func Flatten(err error) *Exception {
	if err == nil {
		return nil
	}

	var (
		head, tail *Exception
		pending    []Frame
	)
	for cur, depth := err, 0; cur != nil && depth < maxChainDepth; depth++ {
		if se, ok := cur.(*stackError); ok {
			if pending == nil {
				pending = se.frames
			}
			cur = se.err
			continue
		}

		node := &Exception{
			Class:   fmt.Sprintf("%T", cur),
			Message: cur.Error(),
		}
		if st, ok := cur.(StackTracer); ok {
			node.Trace = st.StackFrames()
		}
		if node.Trace == nil {
			node.Trace = pending
		}
		pending = nil
		if sc, ok := cur.(interface{ StatusCode() int }); ok {
			node.StatusCode = sc.StatusCode()
		}
		if hh, ok := cur.(interface{ Headers() http.Header }); ok {
			node.Headers = hh.Headers()
		}

		if head == nil {
			head = node
		} else {
			tail.Previous = node
		}
		tail = node
		cur = unwrapOne(cur)
	}
	return head
}

func unwrapOne(err error) error {
	if next := errors.Unwrap(err); next != nil {
		return next
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if e != nil {
				return e
			}
		}
	}
	return nil
}

// stackError attaches captured frames to an error without changing its message.
type stackError struct {
	err    error
	frames []Frame
}

func (e *stackError) Error() string        { return e.err.Error() }
func (e *stackError) Unwrap() error        { return e.err }
func (e *stackError) StackFrames() []Frame { return e.frames }

// WithStack records the caller's stack on err. Errors that already carry a
// stack are returned unchanged.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return withStack(err, 1)
}

// WithStackSkip is WithStack for helpers: skip=1 records the stack from the
// helper's caller.
func WithStackSkip(err error, skip int) error {
	if err == nil {
		return nil
	}
	return withStack(err, skip+1)
}

func withStack(err error, skip int) error {
	var st StackTracer
	if errors.As(err, &st) {
		return err
	}
	return &stackError{err: err, frames: Callers(skip + 1)}
}

// WithArgs records the caller's stack on err and attaches args to the
// innermost frame.
func WithArgs(err error, args ...any) error {
	if err == nil {
		return nil
	}
	var frames []Frame
	if se, ok := err.(*stackError); ok {
		frames = append([]Frame(nil), se.frames...)
		err = se.err
	} else {
		frames = Callers(1)
	}
	if len(frames) > 0 {
		frames[0].Args = ArgsOf(args...)
	}
	return &stackError{err: err, frames: frames}
}

// Callers captures the current goroutine's stack, most recent call first.
// skip=0 starts at the function calling Callers. Runtime frames are dropped.
func Callers(skip int) []Frame {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}
	return FramesFromPCs(pcs[:n])
}

// FramesFromPCs resolves program counters into frames.
func FramesFromPCs(pcs []uintptr) []Frame {
	frames := runtime.CallersFrames(pcs)
	out := make([]Frame, 0, len(pcs))
	for {
		f, more := frames.Next()
		if f.Function != "" && !strings.HasPrefix(f.Function, "runtime.") {
			class, typ, fn := splitFunction(f.Function)
			out = append(out, Frame{
				File:     f.File,
				Line:     f.Line,
				Class:    class,
				Type:     typ,
				Function: fn,
			})
		}
		if !more {
			break
		}
	}
	return out
}

// splitFunction splits a runtime function name such as
// "example.com/app/server.(*Server).Handle.func1" into the receiver class
// "example.com/app/server.(*Server)", the call operator "." and the function
// "Handle.func1". Plain functions use the package path as class.
func splitFunction(name string) (class, typ, fn string) {
	const generic = "[...]"
	const placeholder = "\x00"

	slash := strings.LastIndex(name, "/")
	rest := strings.ReplaceAll(name[slash+1:], generic, placeholder)
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return "", "", name
	}

	restore := func(s string) string { return strings.ReplaceAll(s, placeholder, generic) }
	pkg := name[:slash+1] + restore(rest[:dot])
	tail := rest[dot+1:]

	if strings.HasPrefix(tail, "(") {
		if end := strings.Index(tail, ")."); end > 0 {
			return pkg + "." + restore(tail[:end+1]), ".", restore(tail[end+2:])
		}
	}

	parts := strings.SplitN(tail, ".", 2)
	if len(parts) == 2 && !isClosureName(parts[1]) {
		return pkg + "." + restore(parts[0]), ".", restore(parts[1])
	}
	return pkg, ".", restore(tail)
}

func isClosureName(s string) bool {
	for _, prefix := range []string{"func", "gowrap", "deferwrap"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			if rest == "" {
				return true
			}
			if rest[0] >= '0' && rest[0] <= '9' {
				return true
			}
		}
	}
	return false
}
