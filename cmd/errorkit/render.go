package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/errorkit/pkg/httperr"
	"github.com/dmitrymomot/errorkit/pkg/report"
)

type renderOptions struct {
	severity string
	out      string
	context  map[string]string
	status   int
	fragment bool
	log      bool
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [message]",
		Short: "Render a sample report as HTML",
		Long: `Render a report for a sample error (or, with --log, a plain log message)
and write it to stdout or a file. Context values are redacted like in real reports.`,
		Example: `  errorkit render "payment declined" --context order=42 --context password=secret
  errorkit render "disk almost full" --log --severity warning --out report.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := "Something went wrong"
			if len(args) > 0 {
				message = args[0]
			}
			return runRender(cmd, message, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.severity, "severity", "s", "error", "severity (debug ... emergency)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().StringToStringVar(&opts.context, "context", nil, "context entries as key=value")
	cmd.Flags().IntVar(&opts.status, "status", 0, "HTTP status carried by the sample error")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "render the content block without the page shell")
	cmd.Flags().BoolVar(&opts.log, "log", false, "render a log message instead of an exception")

	return cmd
}

func runRender(cmd *cobra.Command, message string, opts *renderOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sev, err := report.ParseSeverity(opts.severity)
	if err != nil {
		return err
	}

	ev := sampleEvent(sev, message, opts)
	renderer := cfg.Renderer()
	page := renderer.Render(context.Background(), ev, report.Options{FullPage: !opts.fragment})

	data, err := report.Encode(page, renderer.Charset())
	if err != nil {
		return err
	}
	if opts.out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	cmd.Printf("report %s written to %s\n", ev.ID, opts.out)
	return nil
}

func sampleEvent(sev report.Severity, message string, opts *renderOptions) *report.Event {
	keys := make([]string, 0, len(opts.context))
	for k := range opts.context {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fields := make([]report.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, report.Field{Key: k, Value: opts.context[k]})
	}

	if opts.log {
		ev := report.NewEvent(sev, message, fields...)
		ev.Channel = "cli"
		return ev
	}

	ev := report.FromError(sampleError(message, opts.status, keys), fields...)
	ev.Severity = sev
	ev.Channel = "cli"
	return ev
}

func sampleError(message string, status int, keys []string) error {
	var err error = errors.New(message)
	if status > 0 {
		err = httperr.New(status, message, httperr.WithError(err))
	}
	return report.WithArgs(err, strings.Join(keys, ","), len(keys), status > 0)
}
