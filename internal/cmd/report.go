package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"movedyet/internal/core/model"
	"movedyet/internal/platform"
	"movedyet/internal/report"
)

func newReportCmd() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the daily health report",
		Long: `Show the health report for one day.

Without --date, shows yesterday. The report does not mark the day as shown,
so the tray still presents it the next morning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := dateFlag
			if day == "" {
				day = report.Yesterday(time.Now())
			}
			if _, err := time.ParseInLocation(model.DayLayout, day, time.Local); err != nil {
				return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", day)
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

			stats, err := history.DailyStats(day)
			if err != nil {
				return err
			}
			report.Render(newOutput(cmd.OutOrStdout()), report.Build(stats))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Day to report on (YYYY-MM-DD)")

	return cmd
}
