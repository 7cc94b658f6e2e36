package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthspeed/healthspeed/checkers"
	"github.com/healthspeed/healthspeed/core"
	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/license"
	"github.com/healthspeed/healthspeed/internal/outwriter"
	"github.com/healthspeed/healthspeed/internal/scanstore"
	"github.com/healthspeed/healthspeed/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// ow is the shared output writer instance.
var ow = outwriter.NewOutWriter()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "hspc",
	Short:              "Scan your machine for health and speed problems.",
	Long:               `hspc runs security and performance checks against the local machine, scores the results and can fix what it safely can.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".hspc") // Name of config file (without extension)
		viper.SetConfigType("yaml")  // We'll use YAML format
		viper.AddConfigPath(".")     // Look in the current directory
		viper.AddConfigPath("$HOME") // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("HSPC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-connect", "")
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("limit", contract.DefaultReportLimit)
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing. This populates the global
	// 'cfg' from 'input'.
	return contract.ProcessAndValidate(cfg, input)
}

// openStore opens the configured scan store. Callers own the Close.
func openStore() (contract.ScanStore, error) {
	return scanstore.New(cfg.StoreBackend, cfg.StoreConnect)
}

// licenseManager returns the manager for the configured license path.
func licenseManager() *license.Manager {
	return license.NewManager(cfg.LicensePath)
}

// buildEngine assembles the scan engine with the built-in checkers and the
// configured scoring weights.
func buildEngine() (*core.Engine, error) {
	scoring := core.NewScoringEngine()
	if cfg.WeightsFile != "" {
		var err error
		scoring, err = core.NewScoringEngineFromFile(cfg.WeightsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scoring weights: %w", err)
		}
	}

	engine := core.NewEngine(scoring, core.WithWorkers(cfg.Workers))
	for _, checker := range checkers.All(cfg.FixTimeout) {
		engine.Register(checker)
	}
	return engine, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
