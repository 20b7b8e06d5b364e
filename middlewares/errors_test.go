package middlewares_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/middlewares"
	"github.com/dmitrymomot/errorkit/pkg/report"
)

func TestPanicError_Error(t *testing.T) {
	t.Parallel()

	t.Run("formats string panic value", func(t *testing.T) {
		t.Parallel()

		err := &middlewares.PanicError{
			Value: "something went wrong",
			Stack: []byte("stack trace here"),
		}
		require.Equal(t, "panic: something went wrong", err.Error())
	})

	t.Run("formats non-string panic value", func(t *testing.T) {
		t.Parallel()

		err := &middlewares.PanicError{Value: 42}
		require.Equal(t, "panic: 42", err.Error())
	})

	t.Run("formats nil panic value", func(t *testing.T) {
		t.Parallel()

		err := &middlewares.PanicError{Value: nil}
		require.Equal(t, "panic: <nil>", err.Error())
	})
}

func TestPanicError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &middlewares.PanicError{Value: cause}
	require.ErrorIs(t, err, cause)

	require.Nil(t, (&middlewares.PanicError{Value: "boom"}).Unwrap())
}

func TestPanicError_StackFrames(t *testing.T) {
	t.Parallel()

	frames := []report.Frame{{File: "/app/main.go", Line: 10, Function: "main"}}
	err := &middlewares.PanicError{Value: "boom", Frames: frames}

	var st report.StackTracer = err
	require.Equal(t, frames, st.StackFrames())

	exc := report.Flatten(fmt.Errorf("handler: %w", err))
	require.NotNil(t, exc)
	require.NotEmpty(t, exc.Chain())
}

func TestIsPanicError(t *testing.T) {
	t.Parallel()

	require.True(t, middlewares.IsPanicError(&middlewares.PanicError{Value: "x"}))
	require.True(t, middlewares.IsPanicError(fmt.Errorf("wrapped: %w", &middlewares.PanicError{Value: "x"})))
	require.False(t, middlewares.IsPanicError(errors.New("plain")))
	require.False(t, middlewares.IsPanicError(nil))
}

func TestAsPanicError(t *testing.T) {
	t.Parallel()

	orig := &middlewares.PanicError{Value: "x"}
	pe, ok := middlewares.AsPanicError(fmt.Errorf("wrapped: %w", orig))
	require.True(t, ok)
	require.Same(t, orig, pe)

	pe, ok = middlewares.AsPanicError(errors.New("plain"))
	require.False(t, ok)
	require.Nil(t, pe)
}
