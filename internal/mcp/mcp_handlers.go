package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/healthspeed/healthspeed/core"
	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/license"
	"github.com/healthspeed/healthspeed/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	engine   *core.Engine
	store    contract.ScanStore
	licenses *license.Manager
}

func (h *toolHandler) handleRunScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	options := schema.DefaultScanOptions()
	options.Security = request.GetBool("security", options.Security)
	options.Performance = request.GetBool("performance", options.Performance)
	options.Quick = request.GetBool("quick", options.Quick)

	prev, err := h.store.RecentScans(1)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not load scan history: %v", err)), nil
	}

	result := h.engine.Scan(ctx, options)
	if len(prev) > 0 {
		core.ApplyDeltas(result, &prev[0])
	}

	if err := h.store.SaveScan(result); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan succeeded but could not be saved: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lic, err := h.licenses.Load()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not load license: %v", err)), nil
	}

	status := map[string]any{
		"tier": lic.EffectiveTier(),
	}
	if lic.Tier == license.TierTrial {
		status["trial_days_remaining"] = lic.TrialDaysRemaining()
	}

	recents, err := h.store.RecentScans(1)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not load scan history: %v", err)), nil
	}
	if len(recents) > 0 {
		status["last_scan"] = recents[0]
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListReports(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", contract.DefaultReportLimit)
	if limit < 1 || limit > contract.MaxReportLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", contract.MaxReportLimit)), nil
	}

	summaries, err := h.store.RecentScans(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not list reports: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFixIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	actionID := request.GetString("action_id", "")
	if actionID == "" {
		return mcp.NewToolResultError("action_id is required"), nil
	}

	result, err := h.engine.FixIssue(ctx, actionID, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fix failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetChangelog(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", contract.DefaultReportLimit)
	if limit < 1 || limit > contract.MaxReportLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", contract.MaxReportLimit)), nil
	}

	entries, err := h.store.ChangelogEntries(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not load changelog: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
