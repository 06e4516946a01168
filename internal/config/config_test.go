package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeFallsBackToDefaults(t *testing.T) {
	settings := DefaultSettings()
	settings.SitInterval = 0
	settings.DrinkInterval = 30 * time.Second
	settings.Level2Duration = 48 * time.Hour
	settings.OverlayOpacity = 0.2

	got := settings.Normalize()
	defaults := DefaultSettings()
	if got.SitInterval != defaults.SitInterval {
		t.Errorf("sit interval = %v, want %v", got.SitInterval, defaults.SitInterval)
	}
	if got.DrinkInterval != defaults.DrinkInterval {
		t.Errorf("drink interval = %v, want %v", got.DrinkInterval, defaults.DrinkInterval)
	}
	if got.Level2Duration != defaults.Level2Duration {
		t.Errorf("level 2 = %v, want %v", got.Level2Duration, defaults.Level2Duration)
	}
	if got.OverlayOpacity != defaults.OverlayOpacity {
		t.Errorf("opacity = %v, want %v", got.OverlayOpacity, defaults.OverlayOpacity)
	}
}

func TestEngineConfigCarriesEveryField(t *testing.T) {
	settings := DefaultSettings()
	settings.SitInterval = 50 * time.Minute
	settings.DrinkEnabled = false
	settings.EscalationEnabled = true
	settings.Level1Duration = 3 * time.Minute
	settings.InactivityThreshold = 7 * time.Minute
	settings.HistoryEnabled = false

	config := settings.EngineConfig()
	if config.Sit.Interval != 50*time.Minute || !config.Sit.Enabled {
		t.Errorf("sit = %+v", config.Sit)
	}
	if config.Drink.Enabled {
		t.Errorf("drink enabled, want disabled")
	}
	if !config.Escalation.Enabled || config.Escalation.Level1 != 3*time.Minute {
		t.Errorf("escalation = %+v", config.Escalation)
	}
	if config.Activity.InactivityThreshold != 7*time.Minute {
		t.Errorf("inactivity threshold = %v, want 7m", config.Activity.InactivityThreshold)
	}
	if config.HistoryEnabled {
		t.Errorf("history enabled, want disabled")
	}
}

func TestStoreUpdateNotifiesListeners(t *testing.T) {
	store := NewStore(DefaultSettings())
	var seen []Settings
	store.OnChange(func(settings Settings) {
		seen = append(seen, settings)
	})

	updated := DefaultSettings()
	updated.DrinkInterval = 20 * time.Minute
	updated.SitInterval = 0
	stored := store.Update(updated)

	if len(seen) != 1 {
		t.Fatalf("notifications = %d, want 1", len(seen))
	}
	if seen[0] != stored {
		t.Fatalf("listener saw %+v, store returned %+v", seen[0], stored)
	}
	if got := store.Config().Drink.Interval; got != 20*time.Minute {
		t.Fatalf("drink interval = %v, want 20m", got)
	}
	if got := store.Config().Sit.Interval; got != DefaultSettings().SitInterval {
		t.Fatalf("sit interval = %v, want default", got)
	}
}

func TestResolvePathsHonorsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvDBPath, "")

	paths, err := ResolvePaths(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if paths.Settings != filepath.Join(dir, "settings.yaml") {
		t.Errorf("settings path = %q", paths.Settings)
	}
	if paths.Database != filepath.Join(dir, "history.db") {
		t.Errorf("database path = %q", paths.Database)
	}

	t.Setenv(EnvDBPath, "/tmp/custom.db")
	paths, err = ResolvePaths(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if paths.Database != "/tmp/custom.db" {
		t.Errorf("database path = %q, want override", paths.Database)
	}

	if _, err := ResolvePaths(" "); err == nil {
		t.Errorf("expected error for empty app dir")
	}
}

func TestLoadEnvSkipsMissingFiles(t *testing.T) {
	const key = "MOVEDYET_TEST_LOAD_ENV"
	_ = os.Unsetenv(key)
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	file := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(file, []byte(key+"=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"), file); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Fatalf("%s = %q, want from-file", key, got)
	}
}
