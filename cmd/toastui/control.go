package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	toastdbus "github.com/jmylchreest/toastui/internal/dbus"
)

var closeCmd = &cobra.Command{
	Use:   "close ID",
	Short: "Cancel a queued toast or dismiss the active one",
	Long: `Cancel a toast by the ID send printed. A queued toast is dropped without
being shown; the active toast plays its exit transition.

Numeric IDs returned by a D-Bus send are closed over D-Bus.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if id, err := strconv.ParseUint(args[0], 10, 32); err == nil {
			client, err := toastdbus.NewClient()
			if err != nil {
				return err
			}
			return client.CloseNotification(uint32(id))
		}

		client := apiClient()
		if client == nil {
			return errNoAPI
		}
		ctx, cancel := requestContext()
		defer cancel()
		return client.Cancel(ctx, args[0])
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every queued toast and dismiss the active one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiClient()
		if client == nil {
			return errNoAPI
		}
		ctx, cancel := requestContext()
		defer cancel()

		n, err := client.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d toast(s)\n", n)
		return nil
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [SCREEN]",
	Short: "Dismiss the active toast",
	Long: `Dismiss the toast currently on screen. With a screen ID or name, only a
toast on that screen is dismissed. Queued toasts are not affected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiClient()
		if client == nil {
			return errNoAPI
		}
		ctx, cancel := requestContext()
		defer cancel()

		screen := ""
		if len(args) == 1 {
			screen = args[0]
		}
		ok, err := client.Dismiss(ctx, screen)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to dismiss")
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the notification server on the session bus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := toastdbus.NewClient()
		if err != nil {
			return err
		}
		info, err := client.ServerInformation()
		if err != nil {
			return err
		}
		caps, err := client.Capabilities()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Server:       %s %s (%s)\n", info.Name, info.Version, info.Vendor)
		fmt.Fprintf(out, "Spec:         %s\n", info.SpecVersion)
		fmt.Fprintf(out, "Capabilities: %s\n", strings.Join(caps, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(closeCmd, clearCmd, dismissCmd, infoCmd)
}
