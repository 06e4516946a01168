package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvConfigPath overrides the settings file location.
	EnvConfigPath = "MOVEDYET_CONFIG"
	// EnvDBPath overrides the history database location.
	EnvDBPath = "MOVEDYET_DB_PATH"

	settingsFileName = "settings.yaml"
	databaseFileName = "history.db"
)

// Paths are the files the application reads and writes.
type Paths struct {
	Dir      string
	Settings string
	Database string
}

// LoadEnv reads KEY=VALUE pairs from files into the process environment
// without overriding variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", file, err)
		}
	}
	return nil
}

// ResolvePaths places every file under appDir unless overridden by the
// environment.
func ResolvePaths(appDir string) (Paths, error) {
	if strings.TrimSpace(appDir) == "" {
		return Paths{}, fmt.Errorf("resolve paths: app dir is empty")
	}
	paths := Paths{
		Dir:      appDir,
		Settings: filepath.Join(appDir, settingsFileName),
		Database: filepath.Join(appDir, databaseFileName),
	}
	if value := strings.TrimSpace(os.Getenv(EnvConfigPath)); value != "" {
		paths.Settings = value
	}
	if value := strings.TrimSpace(os.Getenv(EnvDBPath)); value != "" {
		paths.Database = value
	}
	return paths, nil
}
