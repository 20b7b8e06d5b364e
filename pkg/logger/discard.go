package logger

import "log/slog"

var discard = slog.New(slog.DiscardHandler)

// Discard returns a logger that drops every record.
func Discard() *slog.Logger { return discard }

// OrDiscard returns l, or Discard when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discard
	}
	return l
}
