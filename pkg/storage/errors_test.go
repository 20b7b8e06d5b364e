package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrInvalidConfig,
		ErrEmptyFile,
		ErrNotFound,
		ErrAccessDenied,
		ErrUploadFailed,
		ErrDeleteFailed,
	}

	seen := make(map[string]bool)
	for _, err := range sentinels {
		require.False(t, seen[err.Error()], "duplicate error message: %s", err)
		seen[err.Error()] = true
	}
}

type fakeAPIError struct {
	code string
}

func (e *fakeAPIError) ErrorCode() string             { return e.code }
func (e *fakeAPIError) ErrorMessage() string          { return "fake" }
func (e *fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }
func (e *fakeAPIError) Error() string                 { return fmt.Sprintf("%s: fake", e.code) }

func TestWrapS3Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		fallback error
		want     error
		name     string
	}{
		{name: "no such key code", err: &fakeAPIError{code: "NoSuchKey"}, fallback: ErrUploadFailed, want: ErrNotFound},
		{name: "not found code", err: &fakeAPIError{code: "NotFound"}, fallback: ErrUploadFailed, want: ErrNotFound},
		{name: "access denied code", err: &fakeAPIError{code: "AccessDenied"}, fallback: ErrUploadFailed, want: ErrAccessDenied},
		{name: "forbidden code", err: &fakeAPIError{code: "Forbidden"}, fallback: ErrDeleteFailed, want: ErrAccessDenied},
		{name: "typed no such key", err: &types.NoSuchKey{}, fallback: ErrUploadFailed, want: ErrNotFound},
		{name: "unknown code", err: &fakeAPIError{code: "SlowDown"}, fallback: ErrDeleteFailed, want: ErrDeleteFailed},
		{name: "plain error", err: errors.New("boom"), fallback: ErrUploadFailed, want: ErrUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := wrapS3Error(tt.err, tt.fallback)
			require.ErrorIs(t, wrapped, tt.want)
			require.Contains(t, wrapped.Error(), tt.err.Error())
		})
	}
}
