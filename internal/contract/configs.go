package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/healthspeed/healthspeed/schema"
)

// Default values for configuration.
const (
	DefaultWorkers     = 1
	MaxWorkers         = 16
	DefaultReportLimit = 10
	MaxReportLimit     = 100
	DefaultFixTimeout  = 30 * time.Second
)

// Config holds the validated runtime configuration shared by all commands.
// Fields that require parsing (durations, enums) are populated by
// ProcessAndValidate after flags, env and config file are merged.
type Config struct {
	StoreBackend schema.StoreBackend // Scan store backend
	StoreConnect string              // Connection string (or sqlite file path)
	LicensePath  string              // Path to the license JSON file
	WeightsFile  string              // Optional YAML file with scoring weight overrides
	Output       schema.OutputMode   // Output format for results
	OutputFile   string              // Optional path to write output to
	Workers      int                 // Concurrent checker workers (1 = sequential)
	Width        int                 // Terminal width override (0 = auto-detect)
	UseColor     bool                // Colored labels in table output
	FixTimeout   time.Duration       // Hard deadline for external fix processes
}

// ConfigRawInput holds the raw values merged by Viper from flags, env and
// config file before validation. Cobra binds flags against these names.
type ConfigRawInput struct {
	StoreBackend string `mapstructure:"store-backend"`
	StoreConnect string `mapstructure:"store-connect"`
	LicensePath  string `mapstructure:"license-path"`
	WeightsFile  string `mapstructure:"weights-file"`
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Workers      int    `mapstructure:"workers"`
	Width        int    `mapstructure:"width"`
	Color        string `mapstructure:"color"`
	FixTimeout   string `mapstructure:"fix-timeout"`
}

// ProcessAndValidate parses and validates the raw inputs into cfg.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Store backend ---
	backend := schema.StoreBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql or none", input.StoreBackend)
	}
	cfg.StoreBackend = backend
	cfg.StoreConnect = input.StoreConnect

	// --- 2. Paths ---
	cfg.LicensePath = input.LicensePath
	if cfg.LicensePath == "" {
		cfg.LicensePath = DefaultLicenseFilePath()
	}
	cfg.WeightsFile = input.WeightsFile

	// --- 3. Output ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json or csv", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	// --- 4. Workers ---
	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 5. Width and color ---
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width
	cfg.UseColor = parseBoolish(input.Color, true)

	// --- 6. Fix timeout ---
	cfg.FixTimeout = DefaultFixTimeout
	if input.FixTimeout != "" {
		d, err := time.ParseDuration(input.FixTimeout)
		if err != nil {
			return fmt.Errorf("invalid fix-timeout '%s': %w", input.FixTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("fix-timeout must be positive (received %s)", d)
		}
		cfg.FixTimeout = d
	}

	return nil
}

// parseBoolish interprets yes/no style flag values, falling back to def.
func parseBoolish(value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "on":
		return true
	case "no", "false", "0", "off":
		return false
	default:
		return def
	}
}
