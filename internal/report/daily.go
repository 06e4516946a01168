package report

import (
	"fmt"
	"time"

	"movedyet/internal/core/model"
)

// Source is the history the daily check reads and marks.
type Source interface {
	DailyStats(day string) (model.DailyStats, error)
	LastReportDate() (string, error)
	SetLastReportDate(day string) error
}

// Due returns yesterday's report when it should be shown now, and marks it
// shown. A day without any sit or drink confirmation produces no report.
func Due(source Source, now time.Time) (Report, bool, error) {
	last, err := source.LastReportDate()
	if err != nil {
		return Report{}, false, fmt.Errorf("daily report: %w", err)
	}
	if !ShouldShow(now, last) {
		return Report{}, false, nil
	}

	stats, err := source.DailyStats(Yesterday(now))
	if err != nil {
		return Report{}, false, fmt.Errorf("daily report: %w", err)
	}
	if stats.SitCount == 0 && stats.DrinkCount == 0 {
		return Report{}, false, nil
	}

	if err := source.SetLastReportDate(model.DayKey(now)); err != nil {
		return Report{}, false, fmt.Errorf("daily report: %w", err)
	}
	return Build(stats), true, nil
}
