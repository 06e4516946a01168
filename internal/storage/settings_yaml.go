package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"movedyet/internal/config"
)

type yamlSettings struct {
	SitIntervalMinutes   int  `yaml:"sit_interval_minutes"`
	SitEnabled           bool `yaml:"sit_enabled"`
	DrinkIntervalMinutes int  `yaml:"drink_interval_minutes"`
	DrinkEnabled         bool `yaml:"drink_enabled"`

	Escalation yamlEscalation `yaml:"escalation"`
	Activity   yamlActivity   `yaml:"activity"`

	HistoryEnabled       bool `yaml:"history_enabled"`
	FocusDurationMinutes int  `yaml:"focus_duration_minutes"`

	OverlayOpacity float64 `yaml:"overlay_opacity"`
	Fullscreen     bool    `yaml:"fullscreen"`
}

type yamlEscalation struct {
	Enabled       bool `yaml:"enabled"`
	Level1Minutes int  `yaml:"level1_minutes"`
	Level2Minutes int  `yaml:"level2_minutes"`
}

type yamlActivity struct {
	Enabled                    bool `yaml:"enabled"`
	InactivityThresholdMinutes int  `yaml:"inactivity_threshold_minutes"`
}

// LoadSettings reads user preferences from the YAML file at path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (config.Settings, error) {
	settings := config.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	fileData := toYaml(settings)
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}
	return fromYaml(fileData).Normalize(), nil
}

// SaveSettings writes user preferences to the YAML file at path.
func SaveSettings(path string, settings config.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(toYaml(settings))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// MarshalSettings renders settings the way they are stored on disk.
func MarshalSettings(settings config.Settings) ([]byte, error) {
	return yaml.Marshal(toYaml(settings))
}

func toYaml(settings config.Settings) yamlSettings {
	return yamlSettings{
		SitIntervalMinutes:   minutes(settings.SitInterval),
		SitEnabled:           settings.SitEnabled,
		DrinkIntervalMinutes: minutes(settings.DrinkInterval),
		DrinkEnabled:         settings.DrinkEnabled,
		Escalation: yamlEscalation{
			Enabled:       settings.EscalationEnabled,
			Level1Minutes: minutes(settings.Level1Duration),
			Level2Minutes: minutes(settings.Level2Duration),
		},
		Activity: yamlActivity{
			Enabled:                    settings.ActivityEnabled,
			InactivityThresholdMinutes: minutes(settings.InactivityThreshold),
		},
		HistoryEnabled:       settings.HistoryEnabled,
		FocusDurationMinutes: minutes(settings.FocusDuration),
		OverlayOpacity:       settings.OverlayOpacity,
		Fullscreen:           settings.Fullscreen,
	}
}

func fromYaml(fileData yamlSettings) config.Settings {
	return config.Settings{
		SitInterval:         time.Duration(fileData.SitIntervalMinutes) * time.Minute,
		SitEnabled:          fileData.SitEnabled,
		DrinkInterval:       time.Duration(fileData.DrinkIntervalMinutes) * time.Minute,
		DrinkEnabled:        fileData.DrinkEnabled,
		EscalationEnabled:   fileData.Escalation.Enabled,
		Level1Duration:      time.Duration(fileData.Escalation.Level1Minutes) * time.Minute,
		Level2Duration:      time.Duration(fileData.Escalation.Level2Minutes) * time.Minute,
		ActivityEnabled:     fileData.Activity.Enabled,
		InactivityThreshold: time.Duration(fileData.Activity.InactivityThresholdMinutes) * time.Minute,
		HistoryEnabled:      fileData.HistoryEnabled,
		FocusDuration:       time.Duration(fileData.FocusDurationMinutes) * time.Minute,
		OverlayOpacity:      fileData.OverlayOpacity,
		Fullscreen:          fileData.Fullscreen,
	}
}

func minutes(d time.Duration) int {
	return int(d / time.Minute)
}
