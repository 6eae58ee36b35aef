package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	toastdbus "github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/httpapi"
	"github.com/jmylchreest/toastui/internal/model"
)

var sendOpts struct {
	title    string
	style    string
	screen   string
	location string
	present  string
	dismiss  string
	length   string
	wait     bool
	viaDBus  bool
	urgency  string
}

var sendCmd = &cobra.Command{
	Use:   "send [flags] MESSAGE...",
	Short: "Show a toast",
	Long: `Queue a toast on the daemon. The toast is shown as soon as nothing else is
on screen.

With --wait the command blocks until the toast leaves the screen and
prints why: tapped, timed-out, dismissed or screen-closed.

Lengths are "short", "long" or a duration such as "1500ms".
Directions are "vertical", "left", "right" or "fade".`,
	Example: `  toastui send "Build finished"
  toastui send --style error --location bottom --title "Sync" "Upload failed"
  toastui send --present left --dismiss fade --length 5s --wait "Saved"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	f := sendCmd.Flags()
	f.StringVarP(&sendOpts.title, "title", "t", "", "Toast title")
	f.StringVarP(&sendOpts.style, "style", "s", "", "Style: "+strings.Join(model.StyleNames(), ", "))
	f.StringVar(&sendOpts.screen, "screen", "", "Screen ID or name (HTTP only)")
	f.StringVarP(&sendOpts.location, "location", "l", "", "Location: top or bottom")
	f.StringVar(&sendOpts.present, "present", "", "Present direction")
	f.StringVar(&sendOpts.dismiss, "dismiss", "", "Dismiss direction")
	f.StringVar(&sendOpts.length, "length", "", "Length: short, long or a duration")
	f.BoolVarP(&sendOpts.wait, "wait", "w", false, "Wait until the toast is dismissed (HTTP only)")
	f.BoolVar(&sendOpts.viaDBus, "dbus", false, "Send over D-Bus even when the HTTP API is available")
	f.StringVarP(&sendOpts.urgency, "urgency", "u", "normal", "D-Bus urgency: low, normal or critical")
}

func runSend(cmd *cobra.Command, args []string) error {
	req := httpapi.ToastRequest{
		Title:    sendOpts.title,
		Message:  strings.Join(args, " "),
		Style:    sendOpts.style,
		Screen:   sendOpts.screen,
		Location: sendOpts.location,
		Present:  sendOpts.present,
		Dismiss:  sendOpts.dismiss,
		Length:   sendOpts.length,
	}
	if _, err := model.ParseLength(req.Length); err != nil {
		return err
	}

	if !sendOpts.viaDBus {
		if client := apiClient(); client != nil {
			err := sendHTTP(cmd, client, req)
			if !isUnreachable(err) {
				return err
			}
			logger.Debug("HTTP API unreachable, falling back to D-Bus", "error", err)
		}
	}

	if sendOpts.wait {
		return errors.New("--wait needs the HTTP API")
	}
	return sendDBus(cmd, req)
}

func sendHTTP(cmd *cobra.Command, client *httpapi.Client, req httpapi.ToastRequest) error {
	ctx, cancel := requestContext()
	if sendOpts.wait {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()

	resp, err := client.Show(ctx, req, sendOpts.wait)
	if err != nil {
		return err
	}
	if resp.Reason != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", resp.ID, resp.Reason)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.ID)
	return nil
}

func sendDBus(cmd *cobra.Command, req httpapi.ToastRequest) error {
	n, err := notificationFor(req, sendOpts.urgency)
	if err != nil {
		return err
	}

	client, err := toastdbus.NewClient()
	if err != nil {
		return err
	}
	id, err := client.Notify(n)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

// notificationFor maps a toast request onto a Notify call.
func notificationFor(req httpapi.ToastRequest, urgency string) (*toastdbus.Notification, error) {
	length, err := model.ParseLength(req.Length)
	if err != nil {
		return nil, err
	}
	level, err := parseUrgency(urgency)
	if err != nil {
		return nil, err
	}

	hints := toastdbus.HintSet(req.Location, req.Style, req.Present, req.Dismiss)
	hints["urgency"] = toastdbus.UrgencyHint(level)

	summary, body := req.Title, req.Message
	if summary == "" {
		// Notify requires a summary; a lone message goes there.
		summary, body = body, ""
	}
	return &toastdbus.Notification{
		AppName:       "toastui",
		Summary:       summary,
		Body:          body,
		Hints:         hints,
		ExpireTimeout: expireTimeoutFor(length, req.Length != ""),
	}, nil
}

// expireTimeoutFor converts a length to a Notify expire_timeout: -1 leaves
// the choice to the server, 0 asks for the long duration.
func expireTimeoutFor(l model.Length, explicit bool) int32 {
	if !explicit {
		return -1
	}
	switch l.Kind {
	case model.LengthKindLong:
		return 0
	case model.LengthKindCustom:
		return int32(l.Custom.Milliseconds())
	default:
		return int32(model.DefaultShortLength.Milliseconds())
	}
}

func parseUrgency(s string) (int, error) {
	switch strings.ToLower(s) {
	case "low", "0":
		return toastdbus.UrgencyLow, nil
	case "", "normal", "1":
		return toastdbus.UrgencyNormal, nil
	case "critical", "2":
		return toastdbus.UrgencyCritical, nil
	default:
		return 0, fmt.Errorf("invalid urgency %q", s)
	}
}

// isUnreachable reports whether err means nothing is listening.
func isUnreachable(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

