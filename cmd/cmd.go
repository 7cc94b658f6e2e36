// Package cmd defines the command-line interface for hspc.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(licenseCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the report subcommands to the parent report command
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportExportCmd)
	reportCmd.AddCommand(reportChangelogCmd)

	// Add the config subcommands to the parent config command
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)

	// Add the license subcommands to the parent license command
	licenseCmd.AddCommand(licenseStatusCmd)
	licenseCmd.AddCommand(licenseActivateCmd)
	licenseCmd.AddCommand(licenseTrialCmd)
	licenseCmd.AddCommand(licenseDowngradeCmd)

	// Add the daemon subcommands to the parent daemon command
	daemonCmd.AddCommand(daemonRunCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Scan store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("license-path", "", "Path to the license file (default ~/.hspc/license.json)")
	rootCmd.PersistentFlags().String("weights-file", "", "Optional YAML file with scoring weight overrides")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TextOut), "Output format: text or json or csv")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultReportLimit, "Number of rows to display for list commands")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent checker workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("fix-timeout", "", "Hard deadline for external fix processes (e.g., 30s)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of scanCmd to Viper
	scanCmd.Flags().Bool("security", false, "Run only the security checkers")
	scanCmd.Flags().Bool("performance", false, "Run only the performance checkers")
	scanCmd.Flags().Bool("quick", false, "Skip slow checkers (process and port scans)")
	scanCmd.Flags().Bool("exclude-apps", false, "Skip application-related checks")
	scanCmd.Flags().Bool("exclude-startup", false, "Skip startup item checks")
	if err := viper.BindPFlags(scanCmd.Flags()); err != nil {
		contract.LogFatal("Error binding scan flags", err)
	}

	// Bind all flags of statusCmd to Viper
	statusCmd.Flags().Bool("json", false, "Shorthand for --output json")
	if err := viper.BindPFlags(statusCmd.Flags()); err != nil {
		contract.LogFatal("Error binding status flags", err)
	}

	// Bind all flags of fixCmd to Viper
	fixCmd.Flags().BoolP("yes", "y", false, "Apply the fix without prompting for confirmation")
	if err := viper.BindPFlags(fixCmd.Flags()); err != nil {
		contract.LogFatal("Error binding fix flags", err)
	}

	// Bind all flags of reportExportCmd to Viper
	reportExportCmd.Flags().String("scans-file", "scans.parquet", "Output path for the scan summary Parquet file")
	reportExportCmd.Flags().String("issues-file", "issues.parquet", "Output path for the per-issue Parquet file")
	if err := viper.BindPFlags(reportExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report export flags", err)
	}

	// Bind all flags of configSetCmd to Viper
	configSetCmd.Flags().String("automation", "", "Enable or disable scheduled scans (on/off)")
	configSetCmd.Flags().String("schedule", "", "Scan cadence: daily or weekly or monthly")
	configSetCmd.Flags().String("auto-fix", "", "Enable or disable automatic fixes for scheduled scans (on/off)")
	if err := viper.BindPFlags(configSetCmd.Flags()); err != nil {
		contract.LogFatal("Error binding config set flags", err)
	}

	// Bind all flags of daemonRunCmd to Viper
	daemonRunCmd.Flags().Duration("wake-interval", 0, "Override the scheduler wake interval (0 = default)")
	if err := viper.BindPFlags(daemonRunCmd.Flags()); err != nil {
		contract.LogFatal("Error binding daemon run flags", err)
	}

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 = latest, 0 = rollback all)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
