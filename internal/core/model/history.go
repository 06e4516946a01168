package model

import "time"

// DayLayout is the calendar day key format used by daily buckets.
const DayLayout = "2006-01-02"

// DayKey returns the local calendar day for t.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ReminderRecord is one reminder outcome.
type ReminderRecord struct {
	ID        string
	Kind      ReminderKind
	At        time.Time
	Confirmed bool
	Snoozed   bool
}

// DailyStats is the per-day bucket of reminder counts and work minutes.
type DailyStats struct {
	Day         string
	SitCount    int
	DrinkCount  int
	WorkMinutes int
}

// Count returns the confirmed count for kind.
func (stats DailyStats) Count(kind ReminderKind) int {
	if kind == KindSit {
		return stats.SitCount
	}
	return stats.DrinkCount
}

// Empty reports whether the day has no recorded activity at all.
func (stats DailyStats) Empty() bool {
	return stats.SitCount == 0 && stats.DrinkCount == 0 && stats.WorkMinutes == 0
}
