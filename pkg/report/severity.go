package report

import (
	"fmt"
	"log/slog"
	"strings"
)

// Severity is the ordered level of a diagnostic event.
type Severity int

const (
	Debug Severity = iota
	Info
	Notice
	Warning
	Error
	Critical
	Alert
	Emergency
)

// Custom slog levels for the severities slog does not define.
const (
	LevelNotice    = slog.Level(2)
	LevelCritical  = slog.Level(12)
	LevelAlert     = slog.Level(16)
	LevelEmergency = slog.Level(20)
)

var severityNames = [...]string{"debug", "info", "notice", "warning", "error", "critical", "alert", "emergency"}

var severityLabels = [...]string{"Debug", "Info", "Notice", "Warning", "Error", "Critical", "Alert", "Emergency"}

var severityTitles = [...]string{
	"Debug Log",
	"Information",
	"Notice",
	"Warning Log",
	"Error Log",
	"Critical Error Log",
	"Alert Log",
	"Emergency Log",
}

var severityLevels = [...]slog.Level{
	slog.LevelDebug,
	slog.LevelInfo,
	LevelNotice,
	slog.LevelWarn,
	slog.LevelError,
	LevelCritical,
	LevelAlert,
	LevelEmergency,
}

// Valid reports whether s is one of the eight defined severities.
func (s Severity) Valid() bool {
	return s >= Debug && s <= Emergency
}

func (s Severity) clamp() Severity {
	switch {
	case s < Debug:
		return Debug
	case s > Emergency:
		return Emergency
	}
	return s
}

// String returns the lowercase name, e.g. "warning".
func (s Severity) String() string {
	return severityNames[s.clamp()]
}

// Label returns the capitalized name, e.g. "Warning".
func (s Severity) Label() string {
	return severityLabels[s.clamp()]
}

// Title returns the report heading for the severity, e.g. "Critical Error Log".
func (s Severity) Title() string {
	return severityTitles[s.clamp()]
}

// Level returns the slog level the severity maps to.
func (s Severity) Level() slog.Level {
	return severityLevels[s.clamp()]
}

// SeverityFromLevel maps a slog level to the highest severity whose level does not exceed it.
func SeverityFromLevel(l slog.Level) Severity {
	sev := Debug
	for i, lvl := range severityLevels {
		if l >= lvl {
			sev = Severity(i)
		}
	}
	return sev
}

// ParseSeverity parses a severity name. Slog names ("warn", "DEBUG") are accepted too.
func ParseSeverity(name string) (Severity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "warn":
		return Warning, nil
	case "err":
		return Error, nil
	case "crit":
		return Critical, nil
	case "emerg":
		return Emergency, nil
	}
	for i, candidate := range severityNames {
		if candidate == n {
			return Severity(i), nil
		}
	}
	return Debug, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
