package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"movedyet/internal/platform"
)

func newAutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage starting at login",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Start MovedYet at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				execPath, err := os.Executable()
				if err != nil {
					return fmt.Errorf("locate executable: %w", err)
				}
				entry := platform.Entry{Name: appName, ExecPath: execPath, Args: []string{"run"}}
				if err := platform.NewService().EnableAutostart(entry); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Autostart enabled.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop starting MovedYet at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := platform.NewService().DisableAutostart(appName); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Autostart disabled.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print whether autostart is enabled",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				enabled, err := platform.NewService().AutostartEnabled(appName)
				if err != nil {
					return err
				}
				if enabled {
					fmt.Fprintln(cmd.OutOrStdout(), "enabled")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "disabled")
				}
				return nil
			},
		},
	)
	return cmd
}
