package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/license"
	"github.com/healthspeed/healthspeed/internal/outwriter"
	"github.com/healthspeed/healthspeed/schema"
)

// statusCmd summarizes the license, automation settings and the latest scan.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current license, automation settings and last scan.",
	Long: `Show a compact summary of the tool's state: the effective license tier,
whether scheduled scans are enabled, and the scores of the most recent scan.

Examples:
  # Human-readable summary
  hspc status

  # Machine-readable summary
  hspc status --json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if viper.GetBool("json") {
			cfg.Output = schema.JSONOut
		}

		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		lic, err := licenseManager().Load()
		if err != nil {
			contract.LogFatal("Cannot load license", err)
		}

		settings, err := store.GetAutomationSettings()
		if err != nil {
			contract.LogFatal("Cannot load automation settings", err)
		}

		status := outwriter.StatusReport{
			Tier:       string(lic.EffectiveTier()),
			Automation: settings,
		}
		if lic.Tier == license.TierTrial && !lic.IsTrialExpired() {
			days := lic.TrialDaysRemaining()
			status.TrialDaysRemaining = &days
		}
		if recent, err := store.RecentScans(1); err == nil && len(recent) > 0 {
			status.LastScan = &recent[0]
		}

		if err := ow.WriteStatus(status, cfg); err != nil {
			contract.LogFatal("Cannot write status", err)
		}
	},
}
