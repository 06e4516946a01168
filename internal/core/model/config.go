package model

import "time"

// ReminderConfig defines one interval reminder track.
type ReminderConfig struct {
	Interval time.Duration
	Enabled  bool
}

// EscalationConfig controls the three-level reminder escalation.
type EscalationConfig struct {
	Enabled bool
	Level1  time.Duration
	Level2  time.Duration
}

// ActivityConfig controls the inactivity detector.
type ActivityConfig struct {
	Enabled             bool
	InactivityThreshold time.Duration
}

// Config contains runtime settings for the reminder engine.
type Config struct {
	Sit   ReminderConfig
	Drink ReminderConfig

	Escalation EscalationConfig
	Activity   ActivityConfig

	HistoryEnabled bool
	FocusDuration  time.Duration
}

// ConfigProvider supplies the current configuration. Callers read it on every
// operation and never keep a copy across operations.
type ConfigProvider interface {
	Config() Config
}

// ConfigFunc adapts a function to ConfigProvider.
type ConfigFunc func() Config

// Config returns fn().
func (fn ConfigFunc) Config() Config {
	return fn()
}

// StaticConfig returns a provider that always yields config.
func StaticConfig(config Config) ConfigProvider {
	return ConfigFunc(func() Config { return config })
}

// DefaultConfig returns the default reminder settings.
func DefaultConfig() Config {
	return Config{
		Sit:   ReminderConfig{Interval: 60 * time.Minute, Enabled: true},
		Drink: ReminderConfig{Interval: 45 * time.Minute, Enabled: true},
		Escalation: EscalationConfig{
			Enabled: false,
			Level1:  5 * time.Minute,
			Level2:  5 * time.Minute,
		},
		Activity: ActivityConfig{
			Enabled:             true,
			InactivityThreshold: 5 * time.Minute,
		},
		HistoryEnabled: true,
		FocusDuration:  25 * time.Minute,
	}
}

// Reminder returns the track configuration for kind.
func (config Config) Reminder(kind ReminderKind) ReminderConfig {
	if kind == KindSit {
		return config.Sit
	}
	return config.Drink
}
