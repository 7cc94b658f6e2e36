package checkers

import (
	"context"
	"runtime"
	"strings"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/executil"
	"github.com/healthspeed/healthspeed/schema"
)

// SmartDiskChecker reads the drive's self-reported S.M.A.R.T. health. A
// failing status is the strongest early warning a disk gives before data
// loss, so it always surfaces as critical. There is no software fix for a
// dying drive; the only remedy is backing up and replacing it.
type SmartDiskChecker struct{}

func NewSmartDiskChecker() *SmartDiskChecker {
	return &SmartDiskChecker{}
}

func (c *SmartDiskChecker) Name() string { return "smart_disk_checker" }

func (c *SmartDiskChecker) Category() schema.CheckCategory { return schema.CategoryPerformance }

func (c *SmartDiskChecker) Run(ctx context.Context, _ *schema.ScanContext) []schema.Issue {
	switch runtime.GOOS {
	case "windows":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"wmic", "diskdrive", "get", "status,model,size", "/format:csv")
		if err != nil {
			return nil
		}
		return windowsSmartIssues(string(out))
	case "darwin":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"diskutil", "info", "disk0")
		if err != nil {
			return nil
		}
		return darwinSmartIssues(string(out))
	case "linux":
		out, err := executil.Run(ctx, executil.DefaultProbeTimeout,
			"smartctl", "-H", "/dev/sda")
		if err != nil {
			// smartctl exits nonzero when the health check fails, so the
			// output still matters; without it there is nothing to report.
			if len(out) == 0 {
				return nil
			}
		}
		return linuxSmartIssues(string(out))
	}
	return nil
}

// Fix is a no-op: a failing disk has to be replaced, not repaired.
func (c *SmartDiskChecker) Fix(_ context.Context, _ string, _ map[string]any) contract.FixOutcome {
	return contract.NotApplicable()
}

// windowsSmartIssues parses `wmic diskdrive` CSV rows. WMI reports a plain
// Status column; "Pred Fail" means the drive predicts its own failure.
func windowsSmartIssues(output string) []schema.Issue {
	var issues []schema.Issue
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Node,") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			continue
		}
		model := strings.TrimSpace(fields[1])
		status := strings.TrimSpace(fields[len(fields)-1])
		switch {
		case strings.Contains(status, "Pred Fail") || strings.Contains(status, "Error"):
			issues = append(issues, smartFailureIssue(model))
		case strings.Contains(status, "Degraded"):
			issues = append(issues, schema.Issue{
				ID:             "disk_smart_degraded",
				Severity:       schema.SeverityWarning,
				Title:          "Hard Drive Health Degraded",
				Description:    "Drive " + model + " is reporting a degraded status. Monitor it closely and keep backups current.",
				ImpactCategory: schema.ImpactPerformance,
			})
		}
	}
	return issues
}

// darwinSmartIssues inspects `diskutil info` for the SMART status line.
func darwinSmartIssues(output string) []schema.Issue {
	if strings.Contains(output, "S.M.A.R.T. Status") && strings.Contains(output, "Failing") {
		return []schema.Issue{smartFailureIssue("disk0")}
	}
	return nil
}

// linuxSmartIssues inspects `smartctl -H` output for a failed health check.
func linuxSmartIssues(output string) []schema.Issue {
	if strings.Contains(output, "FAILING_NOW") || strings.Contains(output, "PASSED: NO") {
		return []schema.Issue{smartFailureIssue("/dev/sda")}
	}
	return nil
}

func smartFailureIssue(drive string) schema.Issue {
	return schema.Issue{
		ID:             "disk_smart_failure",
		Severity:       schema.SeverityCritical,
		Title:          "Hard Drive Failure Predicted",
		Description:    "Drive " + drive + " reports a failing S.M.A.R.T. status. Back up your data immediately and plan to replace the drive.",
		ImpactCategory: schema.ImpactPerformance,
	}
}
