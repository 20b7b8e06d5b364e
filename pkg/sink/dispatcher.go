package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/errorkit/pkg/logger"
	"github.com/dmitrymomot/errorkit/pkg/report"
)

// DefaultTimeout bounds a single sink delivery.
const DefaultTimeout = 10 * time.Second

const tracerName = "github.com/dmitrymomot/errorkit/pkg/sink"

// Dispatcher renders events and fans them out to channels sequentially in
// configuration order. A failing sink never stops the remaining ones.
type Dispatcher struct {
	renderer *report.Renderer
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *Metrics
	channels []Channel
	options  report.Options
	timeout  time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger that receives sink failures at debug level.
// The logger may itself feed this dispatcher: the failing sink is
// suppressed for that nested call.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTracerProvider sets the provider for dispatch spans.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *Dispatcher) {
		if tp != nil {
			d.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithMetrics records deliveries into m.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithTimeout bounds every sink delivery. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// WithRenderOptions sets which request and user sections are rendered.
// FullPage is decided per channel and ignored here.
func WithRenderOptions(opts report.Options) Option {
	return func(d *Dispatcher) {
		d.options = opts
	}
}

// NewDispatcher creates a dispatcher for channels. A nil renderer means
// report.New() with defaults.
func NewDispatcher(renderer *report.Renderer, channels []Channel, opts ...Option) *Dispatcher {
	if renderer == nil {
		renderer = report.New()
	}
	d := &Dispatcher{
		renderer: renderer,
		logger:   logger.Discard(),
		tracer:   otel.Tracer(tracerName),
		channels: channels,
		options:  report.Options{IncludeRequestInfo: true, IncludeUserInfo: true},
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Channels returns a copy of the configured channels.
func (d *Dispatcher) Channels() []Channel {
	out := make([]Channel, len(d.channels))
	copy(out, d.channels)
	return out
}

// Renderer returns the renderer used for sink documents.
func (d *Dispatcher) Renderer() *report.Renderer {
	return d.renderer
}

// Dispatch delivers ev to every channel whose level admits it.
// Each report is rendered at most once per page mode. The returned error
// joins the individual sink failures, which have already been logged; it is
// informational and callers usually ignore it.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *report.Event) error {
	if ev == nil {
		return nil
	}

	ctx, span := d.tracer.Start(ctx, "sink.dispatch", trace.WithAttributes(
		attribute.String("event.id", ev.ID),
		attribute.String("event.severity", ev.Severity.String()),
		attribute.String("event.channel", ev.Channel),
	))
	defer span.End()

	docs := make(map[bool]Document, 2)
	var errs []error
	for _, ch := range d.channels {
		if ch.Sink == nil || ev.Severity < ch.Level {
			continue
		}
		name := ch.Sink.Name()
		if Suppressed(ctx, name) {
			d.metrics.observe(name, ResultSuppressed, 0)
			continue
		}

		doc, ok := docs[ch.FullPage]
		if !ok {
			doc = d.render(ctx, ev, ch.FullPage)
			docs[ch.FullPage] = doc
		}

		if err := d.deliver(ctx, ch, ev, doc); err != nil {
			errs = append(errs, err)
			continue
		}
		if ch.Final {
			break
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (d *Dispatcher) render(ctx context.Context, ev *report.Event, fullPage bool) Document {
	opts := d.options
	opts.FullPage = fullPage
	return Document{
		HTML:    d.renderer.Render(ctx, ev, opts),
		Charset: d.renderer.Charset(),
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ch Channel, ev *report.Event, doc Document) (err error) {
	name := ch.Sink.Name()
	ctx = Suppress(ctx, name)
	logCtx := context.WithoutCancel(ctx)

	ctx, span := d.tracer.Start(ctx, "sink.deliver", trace.WithAttributes(
		attribute.String("sink.name", name),
		attribute.Bool("sink.full_page", ch.FullPage),
	))
	defer span.End()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrDeliveryFailed, name, rec)
		}

		result := ResultOK
		if err != nil {
			result = ResultError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			d.logger.DebugContext(logCtx, "log sink failed",
				slog.String("sink", name),
				slog.String("event_id", ev.ID),
				slog.Any("error", err),
			)
		}
		d.metrics.observe(name, result, time.Since(start))
	}()

	if err := ch.Sink.Deliver(ctx, ev, doc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDeliveryFailed, name, err)
	}
	return nil
}

// Close releases sinks that hold resources (open files, temp files).
func (d *Dispatcher) Close() error {
	var errs []error
	for _, ch := range d.channels {
		if c, ok := ch.Sink.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", ch.Sink.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
