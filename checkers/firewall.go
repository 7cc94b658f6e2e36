package checkers

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/executil"
	"github.com/healthspeed/healthspeed/schema"
)

// FirewallChecker verifies that the host firewall is enabled and can turn it
// back on. Enabling the firewall is safe to apply without confirmation, so
// this is the one built-in fix flagged auto-fixable.
type FirewallChecker struct {
	fixTimeout time.Duration
}

func NewFirewallChecker(fixTimeout time.Duration) *FirewallChecker {
	return &FirewallChecker{fixTimeout: fixTimeout}
}

func (c *FirewallChecker) Name() string { return "firewall_checker" }

func (c *FirewallChecker) Category() schema.CheckCategory { return schema.CategorySecurity }

func (c *FirewallChecker) Run(ctx context.Context, _ *schema.ScanContext) []schema.Issue {
	enabled, err := firewallEnabled(ctx)
	if err != nil || enabled {
		return nil
	}

	return []schema.Issue{{
		ID:             "firewall_disabled",
		Severity:       schema.SeverityCritical,
		Title:          "Firewall is OFF",
		Description:    "Your firewall protects against network attacks. Having it disabled leaves your computer vulnerable.",
		ImpactCategory: schema.ImpactSecurity,
		Fix: &schema.FixAction{
			ActionID:  "enable_firewall",
			Label:     "Enable Firewall",
			IsAutoFix: true,
		},
	}}
}

func (c *FirewallChecker) Fix(ctx context.Context, actionID string, _ map[string]any) contract.FixOutcome {
	if actionID != "enable_firewall" {
		return contract.NotApplicable()
	}

	name, args, err := enableFirewallCommand()
	if err != nil {
		return contract.Failed(err)
	}
	if _, err := executil.Run(ctx, c.fixTimeout, name, args...); err != nil {
		return contract.Failed(fmt.Errorf("failed to enable firewall: %w", err))
	}

	return contract.Succeeded(schema.FixResult{
		Success: true,
		Message: "Firewall enabled successfully",
	})
}

// firewallEnabled probes the platform firewall state. Unknown platforms and
// probe failures report enabled so no false alarm is raised.
func firewallEnabled(ctx context.Context) (bool, error) {
	switch runtime.GOOS {
	case "windows":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"netsh", "advfirewall", "show", "currentprofile", "state")
		if err != nil {
			return true, err
		}
		return strings.Contains(string(out), "ON"), nil

	case "darwin":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"/usr/libexec/ApplicationFirewall/socketfilterfw", "--getglobalstate")
		if err != nil {
			return true, err
		}
		return strings.Contains(strings.ToLower(string(out)), "enabled"), nil

	case "linux":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout, "ufw", "status")
		if err != nil {
			return true, err
		}
		return strings.Contains(string(out), "Status: active"), nil

	default:
		return true, nil
	}
}

func enableFirewallCommand() (string, []string, error) {
	switch runtime.GOOS {
	case "windows":
		return "netsh", []string{"advfirewall", "set", "currentprofile", "state", "on"}, nil
	case "darwin":
		return "/usr/libexec/ApplicationFirewall/socketfilterfw", []string{"--setglobalstate", "on"}, nil
	case "linux":
		return "ufw", []string{"enable"}, nil
	default:
		return "", nil, fmt.Errorf("firewall fix is not supported on %s", runtime.GOOS)
	}
}
