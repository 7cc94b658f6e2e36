package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/parquet"
)

// reportCmd is the parent command for persisted scan reports.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Browse and export persisted scan reports.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// reportListCmd lists recent scans, newest first.
var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent scans with their scores.",
	Long: `List the most recent persisted scans, newest first.

Examples:
  # Last ten scans
  hspc report list

  # Last 50 scans as CSV
  hspc report list --limit 50 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		limit := viper.GetInt("limit")
		if limit <= 0 || limit > contract.MaxReportLimit {
			contract.LogFatal("Invalid limit", fmt.Errorf("limit must be between 1 and %d (received %d)", contract.MaxReportLimit, limit))
		}

		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		summaries, err := store.RecentScans(limit)
		if err != nil {
			contract.LogFatal("Cannot list scans", err)
		}

		if err := ow.WriteScanList(summaries, cfg); err != nil {
			contract.LogFatal("Cannot write scan list", err)
		}
	},
}

// reportChangelogCmd lists the changes the tool made to the host.
var reportChangelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "List changes the tool made to the machine.",
	Long: `List the append-only record of changes made to the machine: applied
fixes, removed temp files and other host mutations, newest first.

Examples:
  hspc report changelog
  hspc report changelog --limit 50 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		limit := viper.GetInt("limit")
		if limit <= 0 || limit > contract.MaxReportLimit {
			contract.LogFatal("Invalid limit", fmt.Errorf("limit must be between 1 and %d (received %d)", contract.MaxReportLimit, limit))
		}

		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		entries, err := store.ChangelogEntries(limit)
		if err != nil {
			contract.LogFatal("Cannot list changelog", err)
		}

		if err := ow.WriteChangelog(entries, cfg); err != nil {
			contract.LogFatal("Cannot write changelog", err)
		}
	},
}

// reportShowCmd renders one persisted scan in full.
var reportShowCmd = &cobra.Command{
	Use:   "show <scan-id>",
	Short: "Show a persisted scan in full.",
	Long: `Show one persisted scan with all of its issues, exactly as the
original scan command rendered it.

Examples:
  hspc report show 4f1c2d3e-...
  hspc report show 4f1c2d3e-... --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		result, err := store.GetScan(args[0])
		if err != nil {
			contract.LogFatal("Cannot load scan", err)
		}

		if err := ow.WriteScanResult(result, cfg); err != nil {
			contract.LogFatal("Cannot write scan result", err)
		}
	},
}

// reportExportCmd exports the scan history to Parquet files.
var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scan history to Parquet files.",
	Long: `Export the persisted scan history as two Parquet files: one row per
scan and one row per issue. The files are suitable for loading into DuckDB,
Spark or pandas for long-term trend analysis.

Examples:
  hspc report export
  hspc report export --scans-file /tmp/scans.parquet --issues-file /tmp/issues.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		scansFile := viper.GetString("scans-file")
		issuesFile := viper.GetString("issues-file")
		scanCount, issueCount, err := exportScanHistory(store, scansFile, issuesFile)
		if err != nil {
			contract.LogFatal("Cannot export scan history", err)
		}
		fmt.Printf("Exported %d scans and %d issues to %s and %s\n",
			scanCount, issueCount, scansFile, issuesFile)
	},
}

// exportScanHistory loads the persisted scans and writes the two Parquet
// files. Returns the number of scan and issue rows written.
func exportScanHistory(store contract.ScanStore, scansFile, issuesFile string) (int, int, error) {
	summaries, err := store.RecentScans(contract.MaxReportLimit)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot list scans: %w", err)
	}

	var scans []parquet.ScanRecord
	var issues []parquet.IssueRecord
	for _, summary := range summaries {
		result, err := store.GetScan(summary.ScanID)
		if err != nil {
			return 0, 0, fmt.Errorf("cannot load scan %s: %w", summary.ScanID, err)
		}
		scanRec, issueRecs := parquet.FromScanResult(result)
		scans = append(scans, scanRec)
		issues = append(issues, issueRecs...)
	}

	if err := parquet.WriteScansParquet(scans, scansFile); err != nil {
		return 0, 0, fmt.Errorf("cannot write scans parquet file: %w", err)
	}
	if err := parquet.WriteIssuesParquet(issues, issuesFile); err != nil {
		return 0, 0, fmt.Errorf("cannot write issues parquet file: %w", err)
	}
	return len(scans), len(issues), nil
}
