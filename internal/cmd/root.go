package cmd

import (
	"github.com/spf13/cobra"

	"movedyet/internal/config"
)

const (
	appName = "MovedYet"
	appID   = "com.movedyet.app"
)

// NewRootCmd creates the root cobra command with all subcommands. Without a
// subcommand it runs the tray application.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "movedyet",
		Short:         "Sit and drink reminders",
		Long:          "MovedYet lives in the system tray and reminds you to stand up and drink water, escalating reminders you ignore.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd)
		},
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newReportCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newAutostartCmd(),
	)

	return rootCmd
}
