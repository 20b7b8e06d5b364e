package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dmitrymomot/errorkit"
	"github.com/dmitrymomot/errorkit/middlewares"
	"github.com/dmitrymomot/errorkit/pkg/httperr"
	"github.com/dmitrymomot/errorkit/pkg/logger"
	"github.com/dmitrymomot/errorkit/pkg/report"
	"github.com/dmitrymomot/errorkit/pkg/sink"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo server that fails on purpose",
		Long: `Run an HTTP server whose routes raise errors, panic and log failures so the
configured channels and error pages can be inspected. Delivery metrics are
exposed at /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	return cmd
}

func runServe(ctx context.Context, addr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var sentryCfg logger.SentryConfig
	if err := env.Parse(&sentryCfg); err != nil {
		return err
	}
	sentryHandler, err := logger.NewSentryHandler(sentryCfg)
	if err != nil {
		return err
	}

	extractors := logger.WithExtractors(middlewares.RequestIDExtractor())
	base := baseLogger(cfg, extractors)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := sink.NewMetrics(reg)
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()

	d, err := cfg.Dispatcher(base, sink.WithMetrics(metrics), sink.WithTracerProvider(tp))
	if err != nil {
		return err
	}
	kit := errorkit.New(d, errorkit.WithDebug(cfg.Debug), errorkit.WithLogger(base))

	// Error records logged by the application are reported too.
	log := baseLogger(cfg, extractors,
		logger.WithHandler(logger.NewReportHandler(d, logger.WithReportLevel(report.Error.Level()), logger.WithChannel("app"))),
		logger.WithHandler(sentryHandler),
	)

	r := chi.NewRouter()
	r.Use(middlewares.RequestID())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/", index)
	r.Method(http.MethodGet, "/fail", kit.Wrap(fail))
	r.Method(http.MethodGet, "/status/{code}", kit.Wrap(status))
	r.Method(http.MethodPost, "/api/orders", kit.Wrap(createOrder))
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		var orders map[string]int
		orders["demo"]++
	})
	r.Get("/log", func(w http.ResponseWriter, r *http.Request) {
		err := report.WithStack(errors.New("nightly export failed"))
		log.ErrorContext(r.Context(), "export job failed", logger.Exception(err), slog.String("job", "export"))
		fmt.Fprintln(w, "logged")
	})

	return kit.Serve(ctx, addr, r)
}

func index(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintln(w, `GET  /fail          error with stack trace
GET  /status/{code} HTTP error with the given status
POST /api/orders    JSON validation error
GET  /panic         nil map write
GET  /log           error logged through slog
GET  /metrics       delivery metrics`)
}

func fail(http.ResponseWriter, *http.Request) error {
	return report.WithArgs(errors.New("inventory service unavailable"), "sku-42", 3)
}

func status(_ http.ResponseWriter, r *http.Request) error {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		return httperr.BadRequest("status must be a number", httperr.WithError(err))
	}
	return httperr.New(code, fmt.Sprintf("demo error with status %d", code))
}

func createOrder(_ http.ResponseWriter, r *http.Request) error {
	if r.FormValue("sku") == "" {
		return httperr.Unprocessable(`{"sku":["required"]}`)
	}
	return httperr.Conflict("order already exists")
}
