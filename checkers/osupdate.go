package checkers

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/executil"
	"github.com/healthspeed/healthspeed/schema"
)

// criticalUpdateBacklog is the pending-update count above which the issue
// escalates from warning to critical.
const criticalUpdateBacklog = 5

// OsUpdateChecker reports pending operating system updates. The probes are
// heuristic: they shell out to the platform update tool and count what it
// lists, which is close enough for a nudge without an update-API dependency.
type OsUpdateChecker struct{}

func NewOsUpdateChecker() *OsUpdateChecker { return &OsUpdateChecker{} }

func (c *OsUpdateChecker) Name() string { return "os_update_checker" }

func (c *OsUpdateChecker) Category() schema.CheckCategory { return schema.CategorySecurity }

func (c *OsUpdateChecker) Run(ctx context.Context, _ *schema.ScanContext) []schema.Issue {
	pending, err := pendingUpdates(ctx)
	if err != nil || pending == 0 {
		return nil
	}

	severity := schema.SeverityWarning
	if pending > criticalUpdateBacklog {
		severity = schema.SeverityCritical
	}

	issueID := "os_update_pending"
	if runtime.GOOS == "windows" {
		issueID = "windows_update_pending"
	}

	return []schema.Issue{{
		ID:             issueID,
		Severity:       severity,
		Title:          fmt.Sprintf("%d system updates available", pending),
		Description:    "Keeping your operating system updated is critical for security. Updates often include patches for vulnerabilities.",
		ImpactCategory: schema.ImpactSecurity,
		Fix: &schema.FixAction{
			ActionID:  "install_os_updates",
			Label:     "Install Updates",
			IsAutoFix: false, // Requires user consent
			Params:    map[string]any{"count": pending},
		},
	}}
}

// Fix has no handlers: installing updates needs user consent and a reboot
// window, so the action above stays advisory.
func (c *OsUpdateChecker) Fix(context.Context, string, map[string]any) contract.FixOutcome {
	return contract.NotApplicable()
}

func pendingUpdates(ctx context.Context) (int, error) {
	switch runtime.GOOS {
	case "windows":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"powershell", "-NoProfile", "-Command",
			"(New-Object -ComObject Microsoft.Update.Session).CreateUpdateSearcher().Search('IsInstalled=0').Updates.Count")
		if err != nil {
			return 0, err
		}
		var count int
		if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%d", &count); err != nil {
			return 0, err
		}
		return count, nil

	case "darwin":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"softwareupdate", "-l")
		if err != nil {
			return 0, err
		}
		count := 0
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "* Label:") {
				count++
			}
		}
		return count, nil

	case "linux":
		// Debian-family only; other distros report zero.
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"apt-get", "-s", "dist-upgrade")
		if err != nil {
			return 0, err
		}
		count := 0
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Inst ") {
				count++
			}
		}
		return count, nil

	default:
		return 0, nil
	}
}
