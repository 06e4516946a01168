package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"movedyet/internal/config"
	"movedyet/internal/core/model"
	"movedyet/internal/storage"
)

func setupHome(t *testing.T) config.Paths {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	paths := config.Paths{
		Dir:      dir,
		Settings: filepath.Join(dir, "settings.yaml"),
		Database: filepath.Join(dir, "history.db"),
	}
	t.Setenv(config.EnvConfigPath, paths.Settings)
	t.Setenv(config.EnvDBPath, paths.Database)
	return paths
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func seed(t *testing.T, paths config.Paths, records ...model.ReminderRecord) {
	t.Helper()
	history, db, err := openHistory(paths)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer db.Close()
	for _, record := range records {
		if err := history.RecordReminder(record); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
}

func TestConfigPathHonorsEnvironment(t *testing.T) {
	paths := setupHome(t)

	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if !strings.Contains(out, paths.Settings) || !strings.Contains(out, paths.Database) {
		t.Fatalf("output %q does not name %s and %s", out, paths.Settings, paths.Database)
	}
}

func TestConfigShowPrintsDefaults(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "sit_interval_minutes: 60") {
		t.Fatalf("output %q lacks default sit interval", out)
	}
}

func TestConfigShowReadsFile(t *testing.T) {
	paths := setupHome(t)
	settings := config.DefaultSettings()
	settings.DrinkInterval = 30 * time.Minute
	if err := storage.SaveSettings(paths.Settings, settings); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "drink_interval_minutes: 30") {
		t.Fatalf("output %q lacks saved drink interval", out)
	}
}

func TestReportForDate(t *testing.T) {
	paths := setupHome(t)
	at := time.Date(2026, 3, 2, 11, 0, 0, 0, time.Local)
	seed(t, paths,
		model.ReminderRecord{ID: "a", Kind: model.KindSit, At: at, Confirmed: true},
		model.ReminderRecord{ID: "b", Kind: model.KindDrink, At: at, Confirmed: true},
	)

	out, err := execute(t, "report", "--date", "2026-03-02")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "Daily health report 2026-03-02") || !strings.Contains(out, "Stood up:   1") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestReportRejectsBadDate(t *testing.T) {
	setupHome(t)
	if _, err := execute(t, "report", "--date", "yesterday"); err == nil {
		t.Fatalf("report accepted an invalid date")
	}
}

func TestHistoryListsDays(t *testing.T) {
	paths := setupHome(t)
	seed(t, paths, model.ReminderRecord{ID: "a", Kind: model.KindDrink, At: time.Now(), Confirmed: true})

	out, err := execute(t, "history", "--days", "3")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, model.DayKey(time.Now())) {
		t.Fatalf("history output lacks today:\n%s", out)
	}
	if !strings.Contains(out, "Last 7 days: 0 stretches, 1 drinks") {
		t.Fatalf("history output lacks weekly totals:\n%s", out)
	}
}

func TestHistoryClearRequiresConfirmation(t *testing.T) {
	paths := setupHome(t)
	seed(t, paths, model.ReminderRecord{ID: "a", Kind: model.KindSit, At: time.Now(), Confirmed: true})

	if _, err := execute(t, "history", "clear"); err == nil {
		t.Fatalf("clear without --yes succeeded")
	}
	if _, err := execute(t, "history", "clear", "--yes"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	history, db, err := openHistory(paths)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer db.Close()
	stats, err := history.DailyStats(model.DayKey(time.Now()))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !stats.Empty() {
		t.Fatalf("stats after clear = %+v, want empty", stats)
	}
}

func TestOpacityToAlpha(t *testing.T) {
	if got := opacityToAlpha(0.85); got != 216 {
		t.Fatalf("opacityToAlpha(0.85) = %d, want 216", got)
	}
	if got := opacityToAlpha(2); got != 255 {
		t.Fatalf("opacityToAlpha(2) = %d, want 255", got)
	}
}
