package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Build information, set via -ldflags.
var (
	version   = "dev"
	gitSHA    = ""
	buildTime = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			label := color.New(color.Faint)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "errorkit %s\n", color.New(color.FgGreen, color.Bold).Sprint(version))
			if gitSHA != "" {
				fmt.Fprintf(out, "  %s %s\n", label.Sprint("Git SHA:   "), gitSHA)
			}
			if buildTime != "" {
				fmt.Fprintf(out, "  %s %s\n", label.Sprint("Build Time:"), buildTime)
			}
			fmt.Fprintf(out, "  %s %s\n", label.Sprint("Go:        "), runtime.Version())
		},
	}
}
