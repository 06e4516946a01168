package cmd

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"movedyet/internal/config"
	"movedyet/internal/platform"
	"movedyet/internal/storage"
)

// resolvePaths returns the settings and database locations for this user.
func resolvePaths(service platform.Service) (config.Paths, error) {
	appDir, err := service.AppDir(appName)
	if err != nil {
		return config.Paths{}, fmt.Errorf("resolve app dir: %w", err)
	}
	return config.ResolvePaths(appDir)
}

// openHistory opens the history database. The caller closes the returned db.
func openHistory(paths config.Paths) (*storage.HistoryStore, *sql.DB, error) {
	db, err := storage.Open(paths.Database)
	if err != nil {
		return nil, nil, err
	}
	history, err := storage.NewHistoryStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return history, db, nil
}

func newOutput(writer io.Writer) *termenv.Output {
	return termenv.NewOutput(writer)
}
