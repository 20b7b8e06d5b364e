package logger

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/dmitrymomot/errorkit/pkg/report"
)

// Dispatcher delivers report events. *sink.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev *report.Event) error
}

// ReportHandler is a slog.Handler that turns records into report events and
// dispatches them. Attributes become the event context in order; an
// "exception" attribute holding an error becomes the event exception with
// its full chain and frames.
type ReportHandler struct {
	dispatcher Dispatcher
	level      slog.Leveler
	channel    string
	groups     []string
	fields     []report.Field
}

// ReportOption configures a ReportHandler.
type ReportOption func(*ReportHandler)

// WithReportLevel sets the minimum level dispatched. Defaults to debug.
func WithReportLevel(l slog.Leveler) ReportOption {
	return func(h *ReportHandler) {
		if l != nil {
			h.level = l
		}
	}
}

// WithChannel sets the channel label shown in log reports.
func WithChannel(name string) ReportOption {
	return func(h *ReportHandler) {
		h.channel = name
	}
}

// NewReportHandler creates a handler feeding d.
func NewReportHandler(d Dispatcher, opts ...ReportOption) *ReportHandler {
	h := &ReportHandler{dispatcher: d, level: slog.LevelDebug}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Exception returns the attribute that attaches err to a log record.
// Errors without a stack get the caller's frames. A nil err yields the
// empty attribute, which handlers skip.
func Exception(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(report.ExceptionKey, report.WithStackSkip(err, 1))
}

func (h *ReportHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.dispatcher != nil && level >= h.level.Level()
}

// Handle dispatches the record. Sink failures are handled by the
// dispatcher, so Handle never fails.
func (h *ReportHandler) Handle(ctx context.Context, rec slog.Record) error {
	fields := make([]report.Field, 0, len(h.fields)+rec.NumAttrs())
	fields = append(fields, h.fields...)
	rec.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, a)
		return true
	})

	ev := report.NewEvent(report.SeverityFromLevel(rec.Level), rec.Message, fields...)
	if !rec.Time.IsZero() {
		ev.Time = rec.Time
	}
	ev.Channel = h.channel

	_ = h.dispatcher.Dispatch(ctx, ev)
	return nil
}

func (h *ReportHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		h2.fields = h2.appendAttr(h2.fields, a)
	}
	return h2
}

func (h *ReportHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

func (h *ReportHandler) clone() *ReportHandler {
	h2 := *h
	h2.groups = slices.Clip(h.groups)
	h2.fields = slices.Clip(h.fields)
	return &h2
}

// appendAttr adds a as a field keyed by its group-qualified name.
// Inline groups (empty key) are flattened.
func (h *ReportHandler) appendAttr(fields []report.Field, a slog.Attr) []report.Field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}
	if a.Value.Kind() == slog.KindGroup && a.Key == "" {
		for _, ga := range a.Value.Group() {
			fields = h.appendAttr(fields, ga)
		}
		return fields
	}

	key := a.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}
	return append(fields, report.Field{Key: key, Value: attrValue(a.Value)})
}

// attrValue converts a resolved slog value into plain Go data; groups
// become maps so the renderer can dump them.
func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindGroup:
		m := make(map[string]any, len(v.Group()))
		for _, a := range v.Group() {
			m[a.Key] = attrValue(a.Value.Resolve())
		}
		return m
	case slog.KindTime:
		return v.Time()
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return v.Any()
	}
}
