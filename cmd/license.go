package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/license"
)

// licenseCmd is the parent command for license management.
var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Inspect and change the license.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// licenseStatusCmd prints the current license state.
var licenseStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the current license tier.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		lic, err := licenseManager().Load()
		if err != nil {
			contract.LogFatal("Cannot load license", err)
		}
		printLicense(lic)
	},
}

// licenseActivateCmd activates a Pro license key.
var licenseActivateCmd = &cobra.Command{
	Use:   "activate <key>",
	Short: "Activate a Pro license key.",
	Long: `Activate a Pro license key of the form HSPC-XXXX-XXXX-XXXX-YYYY.
The key is validated locally and stored in the license file.

Example:
  hspc license activate HSPC-AAAA-AAAA-AAAA-000C`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		lic, err := licenseManager().ActivatePro(args[0])
		if err != nil {
			contract.LogFatal("Cannot activate license", err)
		}
		fmt.Println("Pro license activated.")
		printLicense(lic)
	},
}

// licenseTrialCmd starts a time-limited trial.
var licenseTrialCmd = &cobra.Command{
	Use:     "trial",
	Short:   "Start a free trial of the Pro features.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		lic, err := licenseManager().StartTrial()
		if err != nil {
			contract.LogFatal("Cannot start trial", err)
		}
		fmt.Println("Trial started.")
		printLicense(lic)
	},
}

// licenseDowngradeCmd reverts to the free tier.
var licenseDowngradeCmd = &cobra.Command{
	Use:     "downgrade",
	Short:   "Revert to the free tier.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		lic, err := licenseManager().DowngradeToFree()
		if err != nil {
			contract.LogFatal("Cannot downgrade license", err)
		}
		fmt.Println("Downgraded to free tier.")
		printLicense(lic)
	},
}

func printLicense(lic license.License) {
	fmt.Printf("Tier: %s\n", lic.EffectiveTier())
	if lic.Tier == license.TierTrial {
		if lic.IsTrialExpired() {
			fmt.Println("Trial: expired")
		} else {
			fmt.Printf("Trial: %d days remaining\n", lic.TrialDaysRemaining())
		}
	}
	if lic.Key != nil {
		fmt.Printf("Key: %s\n", *lic.Key)
	}
	fmt.Printf("Activated: %s\n", time.Unix(lic.ActivatedAt, 0).Format("2006-01-02"))
}
