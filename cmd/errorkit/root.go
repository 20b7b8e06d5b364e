package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/errorkit/pkg/config"
	"github.com/dmitrymomot/errorkit/pkg/logger"
)

// Global flags.
var (
	cfgFile   string
	logFormat string
	debugMode bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errorkit",
		Short: "Render and deliver HTML error reports",
		Long: `errorkit renders exceptions and log messages as HTML reports and delivers
them to the configured channels: rotating files, e-mail, Telegram and S3.

Channels are read from the environment and an optional YAML or TOML file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (.yaml, .yml or .toml)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (json, text)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "show full reports in HTTP responses")

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newSendTestCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if debugMode {
		cfg.Debug = true
	}
	return cfg, nil
}

// baseLogger writes to stderr at the configured level.
func baseLogger(cfg *config.Config, opts ...logger.Option) *slog.Logger {
	opts = append([]logger.Option{logger.WithOutput(os.Stderr)}, opts...)
	return logger.New(logger.Config{Level: cfg.Level, Format: logFormat}, opts...)
}
