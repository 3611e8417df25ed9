package vault

import (
	"context"
	"fmt"

	"screentime-go/internal/config"
	"screentime-go/internal/dashboard"
)

// NewVaultFromConfig creates a Vault implementation based on the reports config type.
func NewVaultFromConfig(ctx context.Context, cfg config.ReportsConfig) (dashboard.Vault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(), nil
	case "filesystem", "":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem vault requires root to be set")
		}
		return NewFileSystemVault(cfg.Root)
	case "s3":
		return NewS3VaultFromConfig(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}
