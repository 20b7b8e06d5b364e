package telegram

import "errors"

var (
	// ErrNoToken is returned when the bot token is empty.
	ErrNoToken = errors.New("telegram: bot token is required")

	// ErrInvalidChatID is returned for chat ids that are neither numeric nor @channel names.
	ErrInvalidChatID = errors.New("telegram: invalid chat id")

	// ErrUnsupportedProxy is returned for proxy types the client cannot dial.
	ErrUnsupportedProxy = errors.New("telegram: unsupported proxy type")

	// ErrInvalidProxy is returned for incomplete proxy settings.
	ErrInvalidProxy = errors.New("telegram: invalid proxy settings")
)

// IsEncodingError reports whether err is the API rejecting a caption that
// is not valid UTF-8.
func IsEncodingError(err error) bool {
	if err == nil {
		return false
	}
	return containsFold(err.Error(), "strings must be encoded in UTF-8")
}
