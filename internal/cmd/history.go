package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"movedyet/internal/platform"
	"movedyet/internal/report"
)

func newHistoryCmd() *cobra.Command {
	var daysFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent daily totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if daysFlag <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			paths, err := resolvePaths(platform.NewService())
			if err != nil {
				return err
			}
			history, db, err := openHistory(paths)
			if err != nil {
				return err
			}
			defer db.Close()

			now := time.Now()
			days, err := history.RecentStats(daysFlag, now)
			if err != nil {
				return err
			}
			output := newOutput(cmd.OutOrStdout())
			report.RenderHistory(output, days)

			week, err := history.WeekStats(now)
			if err != nil {
				return err
			}
			fmt.Fprintf(output, "\nLast 7 days: %d stretches, %d drinks, %.1f h worked\n",
				week.SitCount, week.DrinkCount, float64(week.WorkMinutes)/60)
			return nil
		},
	}

	cmd.Flags().IntVar(&daysFlag, "days", 7, "Number of days to show")
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all reminder history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yesFlag {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			paths, err := resolvePaths(platform.NewService())
			if err != nil {
				return err
			}
			history, db, err := openHistory(paths)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := history.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yesFlag, "yes", false, "Confirm deletion")

	return cmd
}
