package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/errorkit/pkg/report"
	"github.com/dmitrymomot/errorkit/pkg/sink"
)

func newSendTestCmd() *cobra.Command {
	var (
		severity string
		keep     bool
	)

	cmd := &cobra.Command{
		Use:   "send-test [message]",
		Short: "Deliver a test report to every configured channel",
		Long: `Build the configured channels and deliver one test report to each of them,
printing the outcome per channel. Channels whose level is above the report
severity are skipped. Archived reports (s3 channels) are read back to verify
the upload and removed afterwards unless --keep is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := "This is a test report from errorkit"
			if len(args) > 0 {
				message = args[0]
			}
			sev, err := report.ParseSeverity(severity)
			if err != nil {
				return err
			}
			return runSendTest(cmd, sev, message, keep)
		},
	}

	cmd.Flags().StringVarP(&severity, "severity", "s", "error", "severity of the test report")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep archived test reports")
	return cmd
}

var (
	errDeliveries   = errors.New("some channels failed")
	errEmptyArchive = errors.New("archived report is empty")
)

// archive is a sink whose reports can be read back, e.g. *sink.StorageSink.
type archive interface {
	Key(ev *report.Event) string
	Fetch(ctx context.Context, ev *report.Event) ([]byte, error)
	Remove(ctx context.Context, ev *report.Event) error
}

func checkArchive(ctx context.Context, a archive, ev *report.Event, keep bool) error {
	body, err := a.Fetch(ctx, ev)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errEmptyArchive
	}
	if keep {
		return nil
	}
	return a.Remove(ctx, ev)
}

func runSendTest(cmd *cobra.Command, sev report.Severity, message string, keep bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := baseLogger(cfg)

	d, err := cfg.Dispatcher(log)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	channels := d.Channels()
	if len(channels) == 0 {
		cmd.Println(color.YellowString("no channels configured"))
		return nil
	}

	ev := report.FromError(report.WithStack(errors.New(message)), report.Field{Key: "command", Value: "send-test"})
	ev.Severity = sev
	ev.Channel = "cli"

	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	skip := color.New(color.FgYellow).SprintFunc()

	failed := 0
	for _, ch := range channels {
		name := ch.Sink.Name()
		if sev < ch.Level {
			cmd.Printf("%-16s %s (level %s)\n", name, skip("skipped"), ch.Level)
			continue
		}

		single := sink.NewDispatcher(d.Renderer(), []sink.Channel{ch},
			sink.WithLogger(log),
			sink.WithTimeout(cfg.Timeout),
			sink.WithRenderOptions(cfg.RenderOptions()),
		)
		start := time.Now()
		if err := single.Dispatch(context.Background(), ev); err != nil {
			failed++
			cmd.Printf("%-16s %s %v\n", name, fail("failed"), err)
			continue
		}
		cmd.Printf("%-16s %s in %s\n", name, ok("sent"), time.Since(start).Round(time.Millisecond))

		if a, isArchive := ch.Sink.(archive); isArchive {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
			err := checkArchive(ctx, a, ev, keep)
			cancel()
			if err != nil {
				failed++
				cmd.Printf("%-16s %s %s: %v\n", name, fail("unverified"), a.Key(ev), err)
				continue
			}
			state := "removed"
			if keep {
				state = "kept"
			}
			cmd.Printf("%-16s %s %s (%s)\n", name, ok("verified"), a.Key(ev), state)
		}
	}

	cmd.Printf("report id: %s\n", ev.ID)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errDeliveries, failed, len(channels))
	}
	return nil
}
