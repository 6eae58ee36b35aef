package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/metrics"
	"github.com/jmylchreest/toastui/internal/termhost"
	"github.com/jmylchreest/toastui/internal/toast"
)

var demoOpts struct {
	logFile string
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Try toasts in the terminal",
	Long: `Run a presenter inside the terminal, without a daemon. Toasts are drawn
over an event log that shows each lifecycle step.

Key bindings:
  n           Show the next demo toast
  N           Show three at once
  space/enter Tap the active toast
  d           Dismiss the active toast
  x           Clear the queue and the active toast
  c           Copy the active message to the clipboard
  ?           Show help
  q           Quit

Mouse buttons follow the [mouse] section of the daemon config.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoOpts.logFile, "log-file", "",
		"Write debug logs to this file")
}

func runDemo(cmd *cobra.Command, args []string) error {
	demoLogger := slog.New(slog.DiscardHandler)
	if demoOpts.logFile != "" {
		f, err := tea.LogToFile(demoOpts.logFile, "toastui")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		demoLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	m := metrics.New()
	err := termhost.Run(termhost.RunOptions{
		Config:    loadConfig(),
		Observers: []toast.Observer{m},
		Logger:    demoLogger,
	})
	if err != nil {
		return err
	}

	if mf, err := m.Registry().Gather(); err == nil {
		for _, f := range mf {
			if f.GetName() == "toastui_toasts_presented_total" && len(f.GetMetric()) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "presented %.0f toast(s)\n", f.GetMetric()[0].GetCounter().GetValue())
			}
		}
	}
	return nil
}
