package checkers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/executil"
	"github.com/healthspeed/healthspeed/schema"
)

// startupItemThreshold is the count above which boot time measurably
// suffers and a warning is raised.
const startupItemThreshold = 15

// knownBloatware matches startup entries that slow machines down without
// providing much value. Matching is substring, case-insensitive.
var knownBloatware = []string{
	"mcafee",
	"norton",
	"wildtangent",
	"candy crush",
	"spotify web helper",
	"skype",
}

// StartupChecker inspects programs registered to launch at login.
type StartupChecker struct{}

func NewStartupChecker() *StartupChecker { return &StartupChecker{} }

func (c *StartupChecker) Name() string { return "startup_analyzer" }

func (c *StartupChecker) Category() schema.CheckCategory { return schema.CategoryPerformance }

func (c *StartupChecker) Run(ctx context.Context, scanCtx *schema.ScanContext) []schema.Issue {
	if scanCtx.Options.ExcludeStartup {
		return nil
	}

	items, err := startupItems(ctx)
	if err != nil {
		return nil
	}

	return c.analyze(items)
}

// analyze converts the startup inventory into issues. Split out from Run so
// the heuristics are testable without a live host.
func (c *StartupChecker) analyze(items []schema.StartupItem) []schema.Issue {
	var issues []schema.Issue

	if len(items) > startupItemThreshold {
		names := make([]string, 0, 10)
		for _, item := range items {
			if len(names) == 10 {
				break
			}
			names = append(names, item.Name)
		}

		issues = append(issues, schema.Issue{
			ID:       "excessive_startup_items",
			Severity: schema.SeverityWarning,
			Title:    fmt.Sprintf("%d apps slow your boot", len(items)),
			Description: fmt.Sprintf(
				"You have %d programs starting at login. Each adds 0.5-2 seconds to boot time. Consider disabling unnecessary ones.",
				len(items)),
			ImpactCategory: schema.ImpactPerformance,
			Fix: &schema.FixAction{
				ActionID:  "optimize_startup",
				Label:     "Optimize Startup",
				IsAutoFix: false,
				Params: map[string]any{
					"count": len(items),
					"items": names,
				},
			},
		})
	}

	for _, item := range items {
		if !isKnownBloatware(item.Name) {
			continue
		}
		issues = append(issues, schema.Issue{
			ID:             "bloatware_startup_" + sanitizeID(item.Name),
			Severity:       schema.SeverityInfo,
			Title:          fmt.Sprintf("%s is known bloatware", item.Name),
			Description:    "This program is known to slow down your computer without providing much value.",
			ImpactCategory: schema.ImpactPerformance,
			Fix: &schema.FixAction{
				ActionID:  "disable_startup_" + sanitizeID(item.Name),
				Label:     "Disable",
				IsAutoFix: false,
				Params:    map[string]any{"name": item.Name},
			},
		})
	}

	return issues
}

// Fix has no handlers: startup changes need the user to pick which items to
// drop, so the actions above are advisory.
func (c *StartupChecker) Fix(context.Context, string, map[string]any) contract.FixOutcome {
	return contract.NotApplicable()
}

func isKnownBloatware(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range knownBloatware {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// startupItems inventories login items per platform, best-effort.
func startupItems(ctx context.Context) ([]schema.StartupItem, error) {
	switch runtime.GOOS {
	case "windows":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"wmic", "startup", "get", "name,command", "/format:csv")
		if err != nil {
			return nil, err
		}
		return parseWmicStartup(string(out)), nil

	case "darwin":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"osascript", "-e", `tell application "System Events" to get the name of every login item`)
		if err != nil {
			return nil, err
		}
		var items []schema.StartupItem
		for _, name := range strings.Split(strings.TrimSpace(string(out)), ", ") {
			if name == "" {
				continue
			}
			items = append(items, schema.StartupItem{Name: name, CanDisable: true})
		}
		return items, nil

	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		entries, err := filepath.Glob(filepath.Join(home, ".config", "autostart", "*.desktop"))
		if err != nil {
			return nil, err
		}
		var items []schema.StartupItem
		for _, entry := range entries {
			name := strings.TrimSuffix(filepath.Base(entry), ".desktop")
			items = append(items, schema.StartupItem{Name: name, Path: entry, CanDisable: true})
		}
		return items, nil

	default:
		return nil, nil
	}
}

// parseWmicStartup parses wmic CSV output. The first two lines are headers.
func parseWmicStartup(out string) []schema.StartupItem {
	var items []schema.StartupItem
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i < 2 {
			continue
		}
		parts := strings.Split(strings.TrimSpace(line), ",")
		if len(parts) < 3 || parts[1] == "" {
			continue
		}
		items = append(items, schema.StartupItem{
			Name:             parts[1],
			Path:             parts[2],
			EstimatedDelayMs: 1000,
			CanDisable:       true,
		})
	}
	return items
}
