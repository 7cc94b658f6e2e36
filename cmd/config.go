package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

// configCmd is the parent command for persisted automation settings.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change automation settings.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// configShowCmd prints all automation settings.
var configShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the persisted automation settings.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		settings, err := store.GetAutomationSettings()
		if err != nil {
			contract.LogFatal("Cannot load automation settings", err)
		}

		fmt.Printf("automation: %s\n", onOff(settings.AutomationEnabled))
		fmt.Printf("schedule: %s\n", settings.RunSchedule)
		fmt.Printf("auto-fix: %s\n", onOff(settings.AutoFixEnabled))
	},
}

// configSetCmd updates one or more automation settings.
var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change automation settings.",
	Long: `Change one or more automation settings. Settings not passed as flags
keep their current values.

Examples:
  # Turn on weekly automatic scans
  hspc config set --automation on --schedule weekly

  # Let scheduled scans apply safe fixes automatically
  hspc config set --auto-fix on`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		settings, err := store.GetAutomationSettings()
		if err != nil {
			contract.LogFatal("Cannot load automation settings", err)
		}

		changed := false
		if v := viper.GetString("automation"); v != "" {
			enabled, err := parseOnOff(v)
			if err != nil {
				contract.LogFatal("Invalid --automation value", err)
			}
			settings.AutomationEnabled = enabled
			changed = true
		}
		if v := viper.GetString("schedule"); v != "" {
			settings.RunSchedule = schema.Schedule(v)
			changed = true
		}
		if v := viper.GetString("auto-fix"); v != "" {
			enabled, err := parseOnOff(v)
			if err != nil {
				contract.LogFatal("Invalid --auto-fix value", err)
			}
			settings.AutoFixEnabled = enabled
			changed = true
		}
		if !changed {
			contract.LogFatal("Nothing to change", fmt.Errorf("pass at least one of --automation, --schedule, --auto-fix"))
		}

		if err := store.SetAutomationSettings(settings); err != nil {
			contract.LogFatal("Cannot save automation settings", err)
		}
		fmt.Println("Settings saved.")
	},
}

// configGetCmd prints the value of a single setting.
var configGetCmd = &cobra.Command{
	Use:     "get <automation|schedule|auto-fix>",
	Short:   "Print the value of one automation setting.",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		settings, err := store.GetAutomationSettings()
		if err != nil {
			contract.LogFatal("Cannot load automation settings", err)
		}

		switch args[0] {
		case "automation":
			fmt.Println(onOff(settings.AutomationEnabled))
		case "schedule":
			fmt.Println(settings.RunSchedule)
		case "auto-fix":
			fmt.Println(onOff(settings.AutoFixEnabled))
		default:
			contract.LogFatal("Unknown setting", fmt.Errorf("'%s' is not one of automation, schedule, auto-fix", args[0]))
		}
	},
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func parseOnOff(value string) (bool, error) {
	switch value {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("'%s' is not on or off", value)
	}
}
