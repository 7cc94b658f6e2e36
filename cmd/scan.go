package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthspeed/healthspeed/core"
	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/outwriter"
	"github.com/healthspeed/healthspeed/schema"
)

// scanCmd runs the checkers and reports health and speed scores.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the machine and score its health and speed.",
	Long: `Run the security and performance checkers against the local machine,
compute health and speed scores, and persist the result.

Each issue lists its severity, the score impact category and the fix action
(if any). The exit code reflects the worst severity found: 0 for a clean or
informational scan, 1 when warnings are present, 2 for critical issues.

Examples:
  # Full scan with both categories
  hspc scan

  # Security checks only, as JSON
  hspc scan --security --output json

  # Fast pass that skips process and port enumeration
  hspc scan --quick

  # Export findings to CSV for tracking
  hspc scan --output csv --output-file scan.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		options := scanOptionsFromFlags()

		engine, err := buildEngine()
		if err != nil {
			contract.LogFatal("Cannot build scan engine", err)
		}

		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		// Deltas compare against the most recent persisted scan, if any.
		var prev *schema.StoredScanSummary
		if recent, err := store.RecentScans(1); err == nil && len(recent) > 0 {
			prev = &recent[0]
		}

		result := engine.Scan(rootCtx, options)
		core.ApplyDeltas(result, prev)

		if err := store.SaveScan(result); err != nil {
			contract.LogFatal("Cannot persist scan result", err)
		}

		if err := ow.WriteScanResult(result, cfg); err != nil {
			contract.LogFatal("Cannot write scan result", err)
		}

		if code := outwriter.ExitCodeForIssues(result.Issues); code != outwriter.ExitClean {
			os.Exit(code)
		}
	},
}

// scanOptionsFromFlags builds scan options from the bound scan flags.
// Passing neither --security nor --performance runs both categories.
func scanOptionsFromFlags() schema.ScanOptions {
	options := schema.ScanOptions{
		Security:       viper.GetBool("security"),
		Performance:    viper.GetBool("performance"),
		Quick:          viper.GetBool("quick"),
		ExcludeApps:    viper.GetBool("exclude-apps"),
		ExcludeStartup: viper.GetBool("exclude-startup"),
	}
	if !options.Security && !options.Performance {
		options.Security = true
		options.Performance = true
	}
	return options
}
