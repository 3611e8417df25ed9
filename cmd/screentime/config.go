package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"screentime-go/internal/app"
	"screentime-go/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		printer.Success("Configuration initialized at %s", defaults["config_path"])
		printer.Print("Base Dir:  %s", cfg.BaseDir)
		printer.Print("Parent ID: %s", cfg.ParentID)
		printer.Print("\nNext: screentime db migrate && screentime db seed")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		printer.Print("Configuration from %s:\n", defaults["config_path"])
		printer.Print("Base Dir:   %s", cfg.BaseDir)
		printer.Print("Log Dir:    %s", cfg.LogDir)
		printer.Print("Parent ID:  %s", cfg.ParentID)
		printer.Print("Provider:   %s", cfg.Provider.Type)
		printer.Print("Reports:    %s (encryption: %s)", cfg.Reports.Type, cfg.Reports.Encryption.Type)
		printer.Print("API Addr:   %s", cfg.Server.Addr)
		return nil
	},
}

var configVaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage the report vault",
}

var configVaultCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the report vault is reachable and writable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "CheckVault")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CheckVault(cmd.Context()); err != nil {
			return err
		}
		printer.Success("Report vault OK")
		return nil
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the SQLite database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		version, err := app.MigrateDatabase(cfg)
		if err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		printer.Success("Database schema at version %d", version)
		return nil
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset for the configured parent",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.SeedDatabase(cmd.Context(), cfg, nil); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		printer.Success("Seeded demo data for parent %s", cfg.ParentID)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configVaultCmd)
	configVaultCmd.AddCommand(configVaultCheckCmd)

	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbSeedCmd)
}
