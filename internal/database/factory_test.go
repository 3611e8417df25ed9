package database

import (
	"os"
	"path/filepath"
	"testing"

	"screentime-go/internal/config"
)

func TestNewSQLiteProviderFromConfig(t *testing.T) {
	t.Run("in-memory database", func(t *testing.T) {
		cfg := config.ProviderConfig{Type: "sqlite", DataDir: ":memory:"}
		got, err := NewSQLiteProviderFromConfig(cfg, nil, nil)
		if err != nil {
			t.Fatalf("NewSQLiteProviderFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if got.Path() != ":memory:" {
			t.Errorf("Path() = %q, want %q", got.Path(), ":memory:")
		}
	})

	t.Run("file database", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "db")
		cfg := config.ProviderConfig{Type: "sqlite", DataDir: dir}
		got, err := NewSQLiteProviderFromConfig(cfg, nil, nil)
		if err != nil {
			t.Fatalf("NewSQLiteProviderFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if err := got.Migrate(); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("database file not created: %v", err)
		}
	})

	t.Run("missing data_dir", func(t *testing.T) {
		cfg := config.ProviderConfig{Type: "sqlite"}
		got, err := NewSQLiteProviderFromConfig(cfg, nil, nil)
		if err == nil {
			got.Close()
			t.Fatal("NewSQLiteProviderFromConfig() expected error for missing data_dir, got nil")
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		cfg := config.ProviderConfig{Type: "postgres", DataDir: t.TempDir()}
		got, err := NewSQLiteProviderFromConfig(cfg, nil, nil)
		if err == nil {
			got.Close()
			t.Fatal("NewSQLiteProviderFromConfig() expected error for postgres type, got nil")
		}
	})
}
