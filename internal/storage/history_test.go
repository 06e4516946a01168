package storage

import (
	"path/filepath"
	"testing"
	"time"

	"movedyet/internal/core/model"
)

func openHistory(t *testing.T) *HistoryStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewHistoryStore(db)
	if err != nil {
		t.Fatalf("new history store: %v", err)
	}
	return store
}

func noon(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		t.Fatalf("read schema_migrations: %v", err)
	}
	if current != SchemaVersion {
		t.Fatalf("current version = %d, want %d", current, SchemaVersion)
	}
}

func TestDuplicateConfirmCountsOnce(t *testing.T) {
	store := openHistory(t)
	at := noon(2026, 3, 2)
	record := model.ReminderRecord{ID: "r-1", Kind: model.KindSit, At: at, Confirmed: true}

	if err := store.RecordReminder(record); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordReminder(record); err != nil {
		t.Fatalf("record duplicate: %v", err)
	}

	stats, err := store.DailyStats(model.DayKey(at))
	if err != nil {
		t.Fatalf("daily stats: %v", err)
	}
	if stats.SitCount != 1 || stats.DrinkCount != 0 {
		t.Fatalf("stats = %+v, want one sit", stats)
	}

	records, err := store.Records(model.DayKey(at))
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 1 || !records[0].At.Equal(at) || !records[0].Confirmed {
		t.Fatalf("records = %+v, want the single confirmed record", records)
	}
}

func TestSnoozedRecordIsNotCounted(t *testing.T) {
	store := openHistory(t)
	at := noon(2026, 3, 2)

	if err := store.RecordReminder(model.ReminderRecord{ID: "r-1", Kind: model.KindDrink, At: at, Snoozed: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordReminder(model.ReminderRecord{ID: "r-2", Kind: model.KindDrink, At: at.Add(time.Minute), Confirmed: true}); err != nil {
		t.Fatalf("record: %v", err)
	}

	stats, err := store.DailyStats(model.DayKey(at))
	if err != nil {
		t.Fatalf("daily stats: %v", err)
	}
	if stats.DrinkCount != 1 {
		t.Fatalf("drink count = %d, want 1", stats.DrinkCount)
	}
	records, err := store.Records(model.DayKey(at))
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 2 || records[0].ID != "r-1" || !records[0].Snoozed {
		t.Fatalf("records = %+v, want snoozed r-1 first", records)
	}
}

func TestRecordReminderValidates(t *testing.T) {
	store := openHistory(t)
	if err := store.RecordReminder(model.ReminderRecord{Kind: model.KindSit, At: time.Now()}); err == nil {
		t.Errorf("expected error for empty id")
	}
	if err := store.RecordReminder(model.ReminderRecord{ID: "x", Kind: "stretch", At: time.Now()}); err == nil {
		t.Errorf("expected error for unknown kind")
	}
}

func TestWorkMinutesAccumulate(t *testing.T) {
	store := openHistory(t)
	day := "2026-03-02"

	for _, minutes := range []int{10, 0, 15} {
		if err := store.AddWorkMinutes(day, minutes); err != nil {
			t.Fatalf("add work minutes: %v", err)
		}
	}
	got, err := store.WorkMinutes(day)
	if err != nil {
		t.Fatalf("work minutes: %v", err)
	}
	if got != 25 {
		t.Fatalf("work minutes = %d, want 25", got)
	}
}

func TestRecentStatsZeroFillsOldestFirst(t *testing.T) {
	store := openHistory(t)
	now := noon(2026, 3, 10)

	if err := store.AddWorkMinutes("2026-03-08", 30); err != nil {
		t.Fatalf("add work minutes: %v", err)
	}
	if err := store.RecordReminder(model.ReminderRecord{ID: "a", Kind: model.KindSit, At: now, Confirmed: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.AddWorkMinutes("2026-03-01", 99); err != nil {
		t.Fatalf("add work minutes: %v", err)
	}

	stats, err := store.RecentStats(3, now)
	if err != nil {
		t.Fatalf("recent stats: %v", err)
	}
	want := []model.DailyStats{
		{Day: "2026-03-08", WorkMinutes: 30},
		{Day: "2026-03-09"},
		{Day: "2026-03-10", SitCount: 1},
	}
	if len(stats) != len(want) {
		t.Fatalf("len = %d, want %d", len(stats), len(want))
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("stats[%d] = %+v, want %+v", i, stats[i], want[i])
		}
	}

	week, err := store.WeekStats(now)
	if err != nil {
		t.Fatalf("week stats: %v", err)
	}
	if week.Day != "2026-03-04" || week.WorkMinutes != 30 || week.SitCount != 1 {
		t.Fatalf("week = %+v, want 2026-03-04 window with 30 minutes and 1 sit", week)
	}
}

func TestClearKeepsReportMarker(t *testing.T) {
	store := openHistory(t)
	at := noon(2026, 3, 2)

	if err := store.RecordReminder(model.ReminderRecord{ID: "a", Kind: model.KindSit, At: at, Confirmed: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.SetLastReportDate("2026-03-02"); err != nil {
		t.Fatalf("set last report date: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	stats, err := store.DailyStats(model.DayKey(at))
	if err != nil {
		t.Fatalf("daily stats: %v", err)
	}
	if !stats.Empty() {
		t.Fatalf("stats after clear = %+v, want empty", stats)
	}
	last, err := store.LastReportDate()
	if err != nil {
		t.Fatalf("last report date: %v", err)
	}
	if last != "2026-03-02" {
		t.Fatalf("last report date = %q, want 2026-03-02", last)
	}
}

func TestLastReportDateDefaultsEmpty(t *testing.T) {
	store := openHistory(t)
	last, err := store.LastReportDate()
	if err != nil {
		t.Fatalf("last report date: %v", err)
	}
	if last != "" {
		t.Fatalf("last report date = %q, want empty", last)
	}
	if err := store.SetLastReportDate("2026-03-01"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.SetLastReportDate("2026-03-02"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	if last, _ := store.LastReportDate(); last != "2026-03-02" {
		t.Fatalf("last report date = %q, want 2026-03-02", last)
	}
}
