// Package config holds the editable application settings and where they live.
package config

import (
	"time"

	"movedyet/internal/core/model"
)

const (
	minInterval  = time.Minute
	maxInterval  = 24 * time.Hour
	minOpacity   = 0.7
	maxOpacity   = 0.95
	defaultAlpha = 0.85
)

// Settings defines editable user preferences.
type Settings struct {
	SitInterval   time.Duration
	SitEnabled    bool
	DrinkInterval time.Duration
	DrinkEnabled  bool

	EscalationEnabled bool
	Level1Duration    time.Duration
	Level2Duration    time.Duration

	ActivityEnabled     bool
	InactivityThreshold time.Duration

	HistoryEnabled bool
	FocusDuration  time.Duration

	OverlayOpacity float64
	Fullscreen     bool
}

// DefaultSettings returns default settings for MovedYet.
func DefaultSettings() Settings {
	defaults := model.DefaultConfig()
	return Settings{
		SitInterval:         defaults.Sit.Interval,
		SitEnabled:          defaults.Sit.Enabled,
		DrinkInterval:       defaults.Drink.Interval,
		DrinkEnabled:        defaults.Drink.Enabled,
		EscalationEnabled:   defaults.Escalation.Enabled,
		Level1Duration:      defaults.Escalation.Level1,
		Level2Duration:      defaults.Escalation.Level2,
		ActivityEnabled:     defaults.Activity.Enabled,
		InactivityThreshold: defaults.Activity.InactivityThreshold,
		HistoryEnabled:      defaults.HistoryEnabled,
		FocusDuration:       defaults.FocusDuration,
		OverlayOpacity:      defaultAlpha,
		Fullscreen:          true,
	}
}

// Normalize replaces out-of-range durations and opacity with defaults.
func (settings Settings) Normalize() Settings {
	defaults := DefaultSettings()
	settings.SitInterval = durationOr(settings.SitInterval, defaults.SitInterval)
	settings.DrinkInterval = durationOr(settings.DrinkInterval, defaults.DrinkInterval)
	settings.Level1Duration = durationOr(settings.Level1Duration, defaults.Level1Duration)
	settings.Level2Duration = durationOr(settings.Level2Duration, defaults.Level2Duration)
	settings.InactivityThreshold = durationOr(settings.InactivityThreshold, defaults.InactivityThreshold)
	settings.FocusDuration = durationOr(settings.FocusDuration, defaults.FocusDuration)
	if settings.OverlayOpacity < minOpacity || settings.OverlayOpacity > maxOpacity {
		settings.OverlayOpacity = defaults.OverlayOpacity
	}
	return settings
}

// EngineConfig converts settings to the reminder engine configuration.
func (settings Settings) EngineConfig() model.Config {
	return model.Config{
		Sit:   model.ReminderConfig{Interval: settings.SitInterval, Enabled: settings.SitEnabled},
		Drink: model.ReminderConfig{Interval: settings.DrinkInterval, Enabled: settings.DrinkEnabled},
		Escalation: model.EscalationConfig{
			Enabled: settings.EscalationEnabled,
			Level1:  settings.Level1Duration,
			Level2:  settings.Level2Duration,
		},
		Activity: model.ActivityConfig{
			Enabled:             settings.ActivityEnabled,
			InactivityThreshold: settings.InactivityThreshold,
		},
		HistoryEnabled: settings.HistoryEnabled,
		FocusDuration:  settings.FocusDuration,
	}
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value < minInterval || value > maxInterval {
		return fallback
	}
	return value
}
