// Package logger builds the slog loggers used across errorkit.
//
// New writes JSON (or text) to stdout and can fan out to extra handlers.
// Two handlers are provided for that: the Sentry handler (NewSentryHandler)
// and ReportHandler, which turns every record into a report event and hands
// it to the sink dispatcher.
//
//	d := sink.NewDispatcher(renderer, channels)
//	log := logger.New(cfg,
//		logger.WithExtractors(middlewares.RequestIDExtractor()),
//		logger.WithHandler(logger.NewReportHandler(d, logger.WithChannel("app"))),
//	)
//
//	log.ErrorContext(ctx, "charge failed", logger.Exception(err), slog.String("order", id))
//
// The "exception" attribute carries the error with its frames into the
// report; other attributes become the report context.
//
// # Context Extractors
//
// A ContextExtractor pulls a request-scoped attribute (request ID, user ID)
// out of the context on every log call:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// NewContextHandler applies extractors to any slog.Handler.
//
// # Levels
//
// Severities without a slog counterpart use custom levels: notice=2,
// critical=12, alert=16, emergency=20. The primary output prints them by name.
package logger
