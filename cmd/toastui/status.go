package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/toast"
)

var statusOpts struct {
	output string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active toast and the queue",
	Long: `Show the toast currently on screen, the toasts waiting behind it and the
screens the daemon knows about.

Output formats: human (default), json, yaml.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.output, "output", "o", "human",
		"Output format (human, json, yaml)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := apiClient()
	if client == nil {
		return errNoAPI
	}
	ctx, cancel := requestContext()
	defer cancel()

	st, err := client.Status(ctx)
	if err != nil {
		return err
	}
	return writeStatus(cmd.OutOrStdout(), st, statusOpts.output, time.Now())
}

func writeStatus(w io.Writer, st toast.Status, format string, now time.Time) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	case "human", "":
		_, err := io.WriteString(w, formatStatus(st, now))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// formatStatus renders a status snapshot for people.
func formatStatus(st toast.Status, now time.Time) string {
	var b strings.Builder

	if a := st.Active; a != nil {
		fmt.Fprintf(&b, "Active:  %s [%s]\n", describeToast(*a), a.State)
		if a.Remaining > 0 {
			fmt.Fprintf(&b, "         visible %s, %s left\n", roundDuration(a.Visible), roundDuration(a.Remaining))
		}
		if a.Reason != "" {
			fmt.Fprintf(&b, "         leaving: %s\n", a.Reason)
		}
	} else {
		b.WriteString("Active:  none\n")
	}

	if len(st.Queued) == 0 {
		b.WriteString("Queued:  none\n")
	} else {
		fmt.Fprintf(&b, "Queued:  %d\n", len(st.Queued))
		for i, q := range st.Queued {
			fmt.Fprintf(&b, "  %d. %s, %s, queued %s\n", i+1, describeToast(q), q.Length, humanize.RelTime(q.CreatedAt, now, "ago", "from now"))
		}
	}

	if len(st.Screens) > 0 {
		b.WriteString("Screens:\n")
		for _, s := range st.Screens {
			fmt.Fprintf(&b, "  %s  %s (%gx%g)\n", s.ID, s.Name, s.Bounds.Width, s.Bounds.Height)
		}
	}
	return b.String()
}

func describeToast(t toast.ToastStatus) string {
	text := t.Message
	if t.Title != "" {
		text = t.Title + ": " + t.Message
	}
	if t.Style != "" {
		text += " (" + t.Style + ")"
	}
	return t.ID + " " + fmt.Sprintf("%q", text)
}

func roundDuration(d time.Duration) time.Duration {
	return d.Round(100 * time.Millisecond)
}
