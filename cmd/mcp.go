package cmd

import (
	"github.com/spf13/cobra"

	"github.com/healthspeed/healthspeed/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the diagnostic MCP server",
	Long:  `Launch an MCP server that allows AI agents to run scans, apply fixes and browse reports via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdout clean: stdio carries the protocol in MCP mode.
		return sharedSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		engine, err := buildEngine()
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		return mcp.StartMCPServer(rootCtx, engine, store, licenseManager())
	},
}
