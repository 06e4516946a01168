package storage

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version of the history database.
const SchemaVersion = 1

// Migrate ensures the SQLite schema exists and is at the current SchemaVersion.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}

	transaction, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = transaction.Rollback() }()

	statements := []struct {
		name string
		sql  string
	}{
		{"create reminder_records table", `
			CREATE TABLE IF NOT EXISTS reminder_records (
				id TEXT PRIMARY KEY,
				kind TEXT NOT NULL,
				day TEXT NOT NULL,
				at TEXT NOT NULL,
				confirmed INTEGER NOT NULL DEFAULT 0,
				snoozed INTEGER NOT NULL DEFAULT 0
			);`},
		{"create idx_reminder_records_day", `CREATE INDEX IF NOT EXISTS idx_reminder_records_day ON reminder_records(day, at);`},
		{"create daily_stats table", `
			CREATE TABLE IF NOT EXISTS daily_stats (
				day TEXT PRIMARY KEY,
				sit_count INTEGER NOT NULL DEFAULT 0,
				drink_count INTEGER NOT NULL DEFAULT 0,
				work_minutes INTEGER NOT NULL DEFAULT 0
			);`},
		{"create kv table", `
			CREATE TABLE IF NOT EXISTS kv (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);`},
	}
	for _, statement := range statements {
		if _, err := transaction.Exec(statement.sql); err != nil {
			return fmt.Errorf("migrate: %s: %w", statement.name, err)
		}
	}

	if _, err := transaction.Exec(`INSERT INTO schema_migrations(version) VALUES (?);`, SchemaVersion); err != nil {
		return fmt.Errorf("migrate: record schema version: %w", err)
	}
	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("migrate: commit transaction: %w", err)
	}
	return nil
}
