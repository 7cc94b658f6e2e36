// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/healthspeed/healthspeed/core"
	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/license"
)

// NewMCPServer initializes and configures the diagnostic MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(engine *core.Engine, store contract.ScanStore, licenses *license.Manager) *server.MCPServer {
	s := server.NewMCPServer(
		"Health & Speed Diagnostic Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		engine:   engine,
		store:    store,
		licenses: licenses,
	}

	// --- 1. Tool: run_scan ---
	s.AddTool(mcp.NewTool("run_scan",
		mcp.WithDescription("Run a diagnostic scan and return scores plus the issues found."),
		mcp.WithBoolean("security", mcp.Description("Include security checkers (default true).")),
		mcp.WithBoolean("performance", mcp.Description("Include performance checkers (default true).")),
		mcp.WithBoolean("quick", mcp.Description("Skip slow probes like the port scan.")),
	), h.handleRunScan)

	// --- 2. Tool: get_status ---
	s.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Return the most recent scan summary and the active license tier."),
	), h.handleGetStatus)

	// --- 3. Tool: list_reports ---
	s.AddTool(mcp.NewTool("list_reports",
		mcp.WithDescription("List stored scan summaries, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of reports to return.")),
	), h.handleListReports)

	// --- 4. Tool: fix_issue ---
	s.AddTool(mcp.NewTool("fix_issue",
		mcp.WithDescription("Apply a fix action reported by a previous scan."),
		mcp.WithString("action_id", mcp.Description("The fix action identifier, e.g. enable_firewall."), mcp.Required()),
	), h.handleFixIssue)

	// --- 5. Tool: get_changelog ---
	s.AddTool(mcp.NewTool("get_changelog",
		mcp.WithDescription("List changes this tool has made to the machine, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return.")),
	), h.handleGetChangelog)

	return s
}

// StartMCPServer starts the diagnostic MCP server on stdio.
func StartMCPServer(_ context.Context, engine *core.Engine, store contract.ScanStore, licenses *license.Manager) error {
	s := NewMCPServer(engine, store, licenses)
	return server.ServeStdio(s)
}
