package provider

import (
	"context"
	"fmt"

	"screentime-go/internal/config"
	"screentime-go/internal/dashboard"
	"screentime-go/internal/database"
	"screentime-go/internal/postgres"
)

// NewProviderFromConfig creates a Provider based on the provider config type.
// A sqlite store must already be migrated.
func NewProviderFromConfig(ctx context.Context, cfg config.ProviderConfig, clock dashboard.Clock, idgen dashboard.IDGenerator) (dashboard.Provider, error) {
	switch cfg.Type {
	case "demo", "":
		return NewDemoProvider(DemoDataset(), idgen, cfg.NotificationLimit), nil
	case "sqlite":
		p, err := database.NewSQLiteProviderFromConfig(cfg, clock, idgen)
		if err != nil {
			return nil, err
		}
		if err := p.CheckMigrations(); err != nil {
			p.Close()
			return nil, fmt.Errorf("database schema out of date (run `screentime db migrate`): %w", err)
		}
		return p, nil
	case "postgres":
		return postgres.NewProviderFromConfig(ctx, cfg, clock, idgen)
	default:
		return nil, fmt.Errorf("unknown provider type: %q", cfg.Type)
	}
}
