package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/httpapi"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	globalOpts struct {
		verbose    bool
		addr       string
		configPath string
		timeout    time.Duration
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "toastui",
	Short: "Send and manage toasts on a running toastuid",
	Long: `toastui talks to a running toastuid daemon.

Toasts are short messages shown one at a time at the top or bottom of the
screen. They slide or fade in, stay for a short or long duration, and leave
when they time out, are tapped, or are dismissed.

The HTTP API is used when the daemon listens on one; otherwise messages are
sent over the org.freedesktop.Notifications D-Bus interface.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.addr, "addr", "",
		"HTTP API address (default: server.listen from the daemon config)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to daemon config file (default: ~/.config/toastui/toastuid.toml)")
	rootCmd.PersistentFlags().DurationVar(&globalOpts.timeout, "timeout", 10*time.Second,
		"Request timeout (ignored by send --wait)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// loadConfig loads the daemon config, falling back to the defaults when it
// cannot be read.
func loadConfig() *config.DaemonConfig {
	cfg, err := config.LoadDaemonConfig(globalOpts.configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		return config.DefaultDaemonConfig()
	}
	return cfg
}

// apiClient returns an HTTP client for the daemon, or nil when no address
// is configured.
func apiClient() *httpapi.Client {
	addr := globalOpts.addr
	if addr == "" {
		addr = loadConfig().Server.Listen
	}
	if addr == "" {
		return nil
	}
	return httpapi.NewClient(addr)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), globalOpts.timeout)
}

var errNoAPI = errors.New("no HTTP API address configured (set server.listen or --addr)")
