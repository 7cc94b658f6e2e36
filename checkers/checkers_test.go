package checkers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllCheckers(t *testing.T) {
	all := All(30 * time.Second)
	require.Len(t, all, 9)

	categories := map[string]schema.CheckCategory{}
	for _, checker := range all {
		categories[checker.Name()] = checker.Category()
	}

	assert.Equal(t, schema.CategorySecurity, categories["firewall_checker"])
	assert.Equal(t, schema.CategoryPerformance, categories["startup_analyzer"])
	assert.Equal(t, schema.CategoryPerformance, categories["process_monitor"])
	assert.Equal(t, schema.CategorySecurity, categories["os_update_checker"])
	assert.Equal(t, schema.CategorySecurity, categories["port_scanner"])
	assert.Equal(t, schema.CategoryPerformance, categories["storage_checker"])
	assert.Equal(t, schema.CategoryPerformance, categories["network_checker"])
	assert.Equal(t, schema.CategoryPerformance, categories["smart_disk_checker"])
	assert.Equal(t, schema.CategoryPerformance, categories["bottleneck_analyzer"])
}

func TestUnknownActionsNotApplicable(t *testing.T) {
	ctx := context.Background()
	for _, checker := range All(time.Second) {
		outcome := checker.Fix(ctx, "nonexistent_action", nil)
		assert.Equal(t, contract.FixNotApplicable, outcome.Status, checker.Name())
	}
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "google_chrome", sanitizeID("Google Chrome"))
	assert.Equal(t, "chrome_exe", sanitizeID("chrome.exe"))
	assert.Equal(t, "app_helper", sanitizeID("App (Helper)"))
	assert.Equal(t, "c", sanitizeID("C:"))
}

func TestStartupExcluded(t *testing.T) {
	checker := NewStartupChecker()
	scanCtx := &schema.ScanContext{
		Options: schema.ScanOptions{ExcludeStartup: true},
	}
	assert.Empty(t, checker.Run(context.Background(), scanCtx))
}

func TestStartupAnalyze(t *testing.T) {
	checker := NewStartupChecker()

	few := make([]schema.StartupItem, 5)
	for i := range few {
		few[i] = schema.StartupItem{Name: fmt.Sprintf("app-%d", i)}
	}
	assert.Empty(t, checker.analyze(few))

	many := make([]schema.StartupItem, 20)
	for i := range many {
		many[i] = schema.StartupItem{Name: fmt.Sprintf("app-%d", i)}
	}
	issues := checker.analyze(many)
	require.Len(t, issues, 1)
	assert.Equal(t, "excessive_startup_items", issues[0].ID)
	assert.Equal(t, schema.SeverityWarning, issues[0].Severity)
	require.NotNil(t, issues[0].Fix)
	assert.Equal(t, "optimize_startup", issues[0].Fix.ActionID)
	assert.False(t, issues[0].Fix.IsAutoFix)
	assert.Equal(t, 20, issues[0].Fix.Params["count"])
	assert.Len(t, issues[0].Fix.Params["items"], 10)
}

func TestStartupBloatware(t *testing.T) {
	checker := NewStartupChecker()

	issues := checker.analyze([]schema.StartupItem{
		{Name: "McAfee Security Scan"},
		{Name: "Visual Studio Code"},
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "bloatware_startup_mcafee_security_scan", issues[0].ID)
	assert.Equal(t, schema.SeverityInfo, issues[0].Severity)
}

func TestProcessAnalyze(t *testing.T) {
	checker := NewProcessChecker()

	issues := checker.analyze([]schema.ProcessInfo{
		{PID: 101, Name: "chrome.exe", CPUPercent: 72.5, MemoryMB: 900},
		{PID: 102, Name: "svchost.exe", CPUPercent: 90, MemoryMB: 4096},
		{PID: 103, Name: "slack", CPUPercent: 3, MemoryMB: 3000},
		{PID: 104, Name: "idle-app", CPUPercent: 1, MemoryMB: 100},
	})

	require.Len(t, issues, 2)
	assert.Equal(t, "high_cpu_chrome_exe", issues[0].ID)
	assert.Equal(t, schema.SeverityWarning, issues[0].Severity)
	assert.Equal(t, "high_memory_slack", issues[1].ID)
	assert.Equal(t, schema.SeverityInfo, issues[1].Severity)
}

func TestProcessQuickMode(t *testing.T) {
	checker := NewProcessChecker()
	scanCtx := &schema.ScanContext{Options: schema.ScanOptions{Quick: true}}
	assert.Empty(t, checker.Run(context.Background(), scanCtx))
}

func TestKillProcessRequiresPid(t *testing.T) {
	checker := NewProcessChecker()
	outcome := checker.Fix(context.Background(), "kill_process", map[string]any{})
	assert.Equal(t, contract.FixFailed, outcome.Status)
	assert.ErrorContains(t, outcome.Err, "pid")
}

func TestPidParam(t *testing.T) {
	pid, ok := pidParam(map[string]any{"pid": float64(42)}) // JSON round trip
	assert.True(t, ok)
	assert.Equal(t, int32(42), pid)

	pid, ok = pidParam(map[string]any{"pid": int32(7)})
	assert.True(t, ok)
	assert.Equal(t, int32(7), pid)

	_, ok = pidParam(map[string]any{"pid": "42"})
	assert.False(t, ok)
}

func TestPortScannerQuickMode(t *testing.T) {
	checker := NewPortScanner()
	scanCtx := &schema.ScanContext{Options: schema.ScanOptions{Quick: true}}
	assert.Empty(t, checker.Run(context.Background(), scanCtx))
}

func TestPortIssue(t *testing.T) {
	tests := []struct {
		port     uint16
		wantID   string
		severity schema.Severity
		flagged  bool
	}{
		{3389, "rdp_port_open", schema.SeverityCritical, true},
		{22, "port_open_22", schema.SeverityCritical, true},
		{23, "port_open_23", schema.SeverityCritical, true},
		{445, "port_open_445", schema.SeverityWarning, true},
		{5900, "port_open_5900", schema.SeverityInfo, true},
		{8080, "", "", false}, // dev whitelist
		{443, "", "", false},  // not risky
	}

	for _, tt := range tests {
		issue, ok := portIssue(tt.port)
		assert.Equal(t, tt.flagged, ok, "port %d", tt.port)
		if !tt.flagged {
			continue
		}
		assert.Equal(t, tt.wantID, issue.ID)
		assert.Equal(t, tt.severity, issue.Severity)
		assert.Equal(t, schema.ImpactSecurity, issue.ImpactCategory)
		require.NotNil(t, issue.Fix)
		assert.False(t, issue.Fix.IsAutoFix)
	}
}

func TestLowSpaceIssue(t *testing.T) {
	// 50% free: healthy
	_, ok := lowSpaceIssue("/", 50*gigabyte, 100*gigabyte)
	assert.False(t, ok)

	// 15% free: warning
	issue, ok := lowSpaceIssue("/", 15*gigabyte, 100*gigabyte)
	require.True(t, ok)
	assert.Equal(t, "low_disk_space_root", issue.ID)
	assert.Equal(t, schema.SeverityWarning, issue.Severity)

	// 5% free: critical
	issue, ok = lowSpaceIssue("/home", 5*gigabyte, 100*gigabyte)
	require.True(t, ok)
	assert.Equal(t, "low_disk_space_home", issue.ID)
	assert.Equal(t, schema.SeverityCritical, issue.Severity)
}

func TestCleanupTempDir(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "stale.tmp")
	require.NoError(t, os.WriteFile(stale, []byte("old data"), 0o644))
	old := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(dir, "fresh.tmp")
	require.NoError(t, os.WriteFile(fresh, []byte("new data"), 0o644))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	removed, reclaimed, err := cleanupTempDir(dir, tempFileMaxAge)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, int64(8), reclaimed)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.DirExists(t, filepath.Join(dir, "subdir"))
}

func TestStorageFixOnCleanDir(t *testing.T) {
	checker := &StorageChecker{tempDir: t.TempDir()}
	outcome := checker.Fix(context.Background(), "cleanup_temp_files", nil)
	require.Equal(t, contract.FixSucceeded, outcome.Status)
	assert.True(t, outcome.Result.Success)
	assert.Contains(t, outcome.Result.Message, "Removed 0")
}
