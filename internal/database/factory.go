package database

import (
	"fmt"
	"os"
	"path/filepath"

	"screentime-go/internal/config"
	"screentime-go/internal/dashboard"
)

// FileName is the database file created inside the configured data_dir.
const FileName = "screentime.db"

// NewSQLiteProviderFromConfig opens the SQLite provider described by cfg.
// A data_dir of ":memory:" opens an in-memory database.
func NewSQLiteProviderFromConfig(cfg config.ProviderConfig, clock dashboard.Clock, idgen dashboard.IDGenerator) (*SQLiteProvider, error) {
	if cfg.Type != "sqlite" {
		return nil, fmt.Errorf("not a sqlite provider: %s", cfg.Type)
	}
	switch cfg.DataDir {
	case "":
		return nil, fmt.Errorf("data_dir required for sqlite provider")
	case ":memory:":
		return NewSQLiteProvider(":memory:", clock, idgen, cfg.NotificationLimit)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return NewSQLiteProvider(filepath.Join(cfg.DataDir, FileName), clock, idgen, cfg.NotificationLimit)
}
