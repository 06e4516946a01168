package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"movedyet/internal/core/model"
)

const (
	lastReportKey = "last_report_date"
	// Fixed width so that stored timestamps sort lexically.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// HistoryStore persists reminder outcomes and daily buckets.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore returns a HistoryStore bound to an open, migrated database.
func NewHistoryStore(db *sql.DB) (*HistoryStore, error) {
	if db == nil {
		return nil, fmt.Errorf("new history store: db is nil")
	}
	return &HistoryStore{db: db}, nil
}

// RecordReminder stores record and, when confirmed, counts it toward the day.
// A record whose ID was already stored is ignored.
func (store *HistoryStore) RecordReminder(record model.ReminderRecord) error {
	if record.ID == "" {
		return fmt.Errorf("record reminder: id is empty")
	}
	if !record.Kind.Valid() {
		return fmt.Errorf("record reminder: unknown kind %q", record.Kind)
	}

	transaction, err := store.db.Begin()
	if err != nil {
		return fmt.Errorf("record reminder: begin: %w", err)
	}
	defer func() { _ = transaction.Rollback() }()

	day := model.DayKey(record.At)
	result, err := transaction.Exec(
		`INSERT OR IGNORE INTO reminder_records (id, kind, day, at, confirmed, snoozed) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, string(record.Kind), day, record.At.UTC().Format(timestampLayout),
		boolToInt(record.Confirmed), boolToInt(record.Snoozed),
	)
	if err != nil {
		return fmt.Errorf("record reminder: insert: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("record reminder: rows affected: %w", err)
	}

	if inserted == 1 && record.Confirmed {
		sit, drink := 0, 0
		if record.Kind == model.KindSit {
			sit = 1
		} else {
			drink = 1
		}
		_, err = transaction.Exec(`
			INSERT INTO daily_stats (day, sit_count, drink_count, work_minutes) VALUES (?, ?, ?, 0)
			ON CONFLICT(day) DO UPDATE SET
				sit_count = sit_count + excluded.sit_count,
				drink_count = drink_count + excluded.drink_count`,
			day, sit, drink,
		)
		if err != nil {
			return fmt.Errorf("record reminder: update daily stats: %w", err)
		}
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("record reminder: commit: %w", err)
	}
	return nil
}

// AddWorkMinutes adds minutes to the day's work total.
func (store *HistoryStore) AddWorkMinutes(day string, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	_, err := store.db.Exec(`
		INSERT INTO daily_stats (day, sit_count, drink_count, work_minutes) VALUES (?, 0, 0, ?)
		ON CONFLICT(day) DO UPDATE SET work_minutes = work_minutes + excluded.work_minutes`,
		day, minutes,
	)
	if err != nil {
		return fmt.Errorf("add work minutes: %w", err)
	}
	return nil
}

// WorkMinutes returns the day's work total.
func (store *HistoryStore) WorkMinutes(day string) (int, error) {
	stats, err := store.DailyStats(day)
	if err != nil {
		return 0, err
	}
	return stats.WorkMinutes, nil
}

// DailyStats returns the bucket for day, zero-filled when absent.
func (store *HistoryStore) DailyStats(day string) (model.DailyStats, error) {
	stats := model.DailyStats{Day: day}
	err := store.db.QueryRow(
		`SELECT sit_count, drink_count, work_minutes FROM daily_stats WHERE day = ?`, day,
	).Scan(&stats.SitCount, &stats.DrinkCount, &stats.WorkMinutes)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return stats, fmt.Errorf("daily stats: %w", err)
	}
	return stats, nil
}

// RecentStats returns the last days buckets ending at now, oldest first.
func (store *HistoryStore) RecentStats(days int, now time.Time) ([]model.DailyStats, error) {
	if days <= 0 {
		return nil, nil
	}
	keys := make([]string, days)
	for i := 0; i < days; i++ {
		keys[i] = model.DayKey(now.AddDate(0, 0, i-days+1))
	}

	rows, err := store.db.Query(
		`SELECT day, sit_count, drink_count, work_minutes FROM daily_stats WHERE day >= ? AND day <= ?`,
		keys[0], keys[days-1],
	)
	if err != nil {
		return nil, fmt.Errorf("recent stats: query: %w", err)
	}
	defer rows.Close()

	found := make(map[string]model.DailyStats, days)
	for rows.Next() {
		var stats model.DailyStats
		if err := rows.Scan(&stats.Day, &stats.SitCount, &stats.DrinkCount, &stats.WorkMinutes); err != nil {
			return nil, fmt.Errorf("recent stats: scan: %w", err)
		}
		found[stats.Day] = stats
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent stats: rows: %w", err)
	}

	result := make([]model.DailyStats, days)
	for i, key := range keys {
		stats, ok := found[key]
		if !ok {
			stats = model.DailyStats{Day: key}
		}
		result[i] = stats
	}
	return result, nil
}

// WeekStats sums the seven days ending at now. Day is the first day of the window.
func (store *HistoryStore) WeekStats(now time.Time) (model.DailyStats, error) {
	days, err := store.RecentStats(7, now)
	if err != nil {
		return model.DailyStats{}, fmt.Errorf("week stats: %w", err)
	}
	total := model.DailyStats{Day: days[0].Day}
	for _, stats := range days {
		total.SitCount += stats.SitCount
		total.DrinkCount += stats.DrinkCount
		total.WorkMinutes += stats.WorkMinutes
	}
	return total, nil
}

// Records lists the day's reminder records in time order.
func (store *HistoryStore) Records(day string) ([]model.ReminderRecord, error) {
	rows, err := store.db.Query(
		`SELECT id, kind, at, confirmed, snoozed FROM reminder_records WHERE day = ? ORDER BY at`, day,
	)
	if err != nil {
		return nil, fmt.Errorf("records: query: %w", err)
	}
	defer rows.Close()

	var records []model.ReminderRecord
	for rows.Next() {
		var (
			record    model.ReminderRecord
			kind, at  string
			confirmed int
			snoozed   int
		)
		if err := rows.Scan(&record.ID, &kind, &at, &confirmed, &snoozed); err != nil {
			return nil, fmt.Errorf("records: scan: %w", err)
		}
		record.Kind = model.ReminderKind(kind)
		record.At, err = time.Parse(timestampLayout, at)
		if err != nil {
			return nil, fmt.Errorf("records: parse time: %w", err)
		}
		record.Confirmed = confirmed != 0
		record.Snoozed = snoozed != 0
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: rows: %w", err)
	}
	return records, nil
}

// Clear removes every record and daily bucket.
func (store *HistoryStore) Clear() error {
	transaction, err := store.db.Begin()
	if err != nil {
		return fmt.Errorf("clear history: begin: %w", err)
	}
	defer func() { _ = transaction.Rollback() }()

	for _, table := range []string{"reminder_records", "daily_stats"} {
		if _, err := transaction.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear history: %s: %w", table, err)
		}
	}
	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("clear history: commit: %w", err)
	}
	return nil
}

// LastReportDate returns the day the daily report was last shown, or "".
func (store *HistoryStore) LastReportDate() (string, error) {
	var value string
	err := store.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, lastReportKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("last report date: %w", err)
	}
	return value, nil
}

// SetLastReportDate remembers that the report was shown on day.
func (store *HistoryStore) SetLastReportDate(day string) error {
	_, err := store.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastReportKey, day,
	)
	if err != nil {
		return fmt.Errorf("set last report date: %w", err)
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
