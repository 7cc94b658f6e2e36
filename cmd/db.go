package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/scanstore"
)

// dbCmd is the parent command for scan store maintenance.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Maintain the scan store database.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// dbMigrateCmd runs versioned schema migrations on the scan store.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations on the scan store.",
	Long: `Run versioned schema migrations against the configured scan store.

Examples:
  # Migrate to latest version (default)
  hspc db migrate

  # Migrate to specific version
  hspc db migrate --target-version 1

  # Rollback everything
  hspc db migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := scanstore.Migrate(cfg.StoreBackend, cfg.StoreConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
