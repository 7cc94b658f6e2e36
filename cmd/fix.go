package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

// fixCmd applies a single fix action by id.
var fixCmd = &cobra.Command{
	Use:   "fix <action-id>",
	Short: "Apply a fix action reported by a previous scan.",
	Long: `Apply a single fix action by id. Action ids come from scan output,
e.g. enable_firewall or cleanup_temp_files.

The command prompts for confirmation before touching the host; pass --yes to
skip the prompt. Applied fixes are recorded in the changelog.

Examples:
  # Apply a fix interactively
  hspc fix cleanup_temp_files

  # Apply without prompting
  hspc fix enable_firewall --yes`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		actionID := args[0]

		if !viper.GetBool("yes") && !confirm(fmt.Sprintf("Apply fix '%s'?", actionID)) {
			fmt.Println("Aborted.")
			return
		}

		engine, err := buildEngine()
		if err != nil {
			contract.LogFatal("Cannot build scan engine", err)
		}

		result, err := engine.FixIssue(rootCtx, actionID, nil)
		if err != nil {
			contract.LogFatal("Cannot apply fix", err)
		}

		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		if result.Success {
			entry := schema.ChangelogEntry{
				Timestamp: time.Now().Unix(),
				Action:    actionID,
				Reason:    result.Message,
			}
			if err := store.AppendChangelog(entry); err != nil {
				contract.LogFatal("Cannot record fix in changelog", err)
			}
		}

		if err := ow.WriteFixResult(actionID, result, cfg); err != nil {
			contract.LogFatal("Cannot write fix result", err)
		}
	},
}

// confirm prompts on stdout and reads a y/N answer from stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
