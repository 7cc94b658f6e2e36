package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainConfig() *contract.Config {
	return &contract.Config{
		Output:   schema.TextOut,
		Width:    100,
		UseColor: false,
	}
}

func sampleResult() *schema.ScanResult {
	delta := -5
	return &schema.ScanResult{
		ScanID:     "scan-abc",
		Timestamp:  1700000000,
		DurationMs: 850,
		Scores: schema.SystemScores{
			Health:      60,
			Speed:       88,
			HealthDelta: &delta,
		},
		Issues: []schema.Issue{
			{
				ID:             "firewall_disabled",
				Severity:       schema.SeverityCritical,
				Title:          "Firewall is OFF",
				ImpactCategory: schema.ImpactSecurity,
				Fix:            &schema.FixAction{ActionID: "enable_firewall", IsAutoFix: true},
			},
			{
				ID:             "excessive_startup_items",
				Severity:       schema.SeverityWarning,
				Title:          "20 apps slow your boot",
				ImpactCategory: schema.ImpactPerformance,
				Fix:            &schema.FixAction{ActionID: "optimize_startup"},
			},
		},
	}
}

func TestWriteScanTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScanTable(&buf, sampleResult(), plainConfig()))
	out := buf.String()

	assert.Contains(t, out, "Health: 60 (Fair) -5")
	assert.Contains(t, out, "Speed: 88 (Good)")
	assert.Contains(t, out, "Firewall is OFF")
	assert.Contains(t, out, "enable_firewall (auto)")
	assert.Contains(t, out, "optimize_startup")
	assert.Contains(t, out, "Found 2 issues")
}

func TestWriteScanTableClean(t *testing.T) {
	result := &schema.ScanResult{
		ScanID: "scan-clean",
		Scores: schema.SystemScores{Health: 100, Speed: 100},
	}

	var buf bytes.Buffer
	require.NoError(t, writeScanTable(&buf, result, plainConfig()))
	out := buf.String()

	assert.Contains(t, out, "Health: 100 (Excellent)")
	assert.Contains(t, out, "No issues found.")
}

func TestWriteScanCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScanCSV(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "scan_id,severity,issue_id,title,impact,fix_action,auto_fix", lines[0])
	assert.Contains(t, lines[1], "scan-abc,critical,firewall_disabled")
	assert.Contains(t, lines[1], ",true")
	assert.Contains(t, lines[2], ",false")
}

func TestWriteScanJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, sampleResult()))

	var decoded schema.ScanResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "scan-abc", decoded.ScanID)
	assert.Len(t, decoded.Issues, 2)
}

func TestWriteScanListTable(t *testing.T) {
	summaries := []schema.StoredScanSummary{
		{ScanID: "scan-1", Timestamp: 1700000000, Health: 95, Speed: 80, IssueCount: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, writeScanListTable(&buf, summaries, plainConfig()))
	assert.Contains(t, buf.String(), "scan-1")
	assert.Contains(t, buf.String(), "95")
}

func TestWriteScanListEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScanListTable(&buf, nil, plainConfig()))
	assert.Contains(t, buf.String(), "No scans recorded yet.")
}

func TestWriteChangelogTable(t *testing.T) {
	entries := []schema.ChangelogEntry{
		{Timestamp: 1700000000, Action: "cleanup_temp_files", Path: "temp_files_accumulated", Reason: "Removed 12 temporary files"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeChangelogTable(&buf, entries))
	assert.Contains(t, buf.String(), "cleanup_temp_files")
	assert.Contains(t, buf.String(), "Removed 12 temporary files")
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "", formatDelta(nil))

	up := 7
	assert.Equal(t, " +7", formatDelta(&up))

	down := -3
	assert.Equal(t, " -3", formatDelta(&down))

	zero := 0
	assert.Equal(t, " +0", formatDelta(&zero))
}

func TestExitCodeForIssues(t *testing.T) {
	assert.Equal(t, ExitClean, ExitCodeForIssues(nil))

	info := []schema.Issue{{Severity: schema.SeverityInfo}}
	assert.Equal(t, ExitInfo, ExitCodeForIssues(info))

	warn := append(info, schema.Issue{Severity: schema.SeverityWarning})
	assert.Equal(t, ExitWarning, ExitCodeForIssues(warn))

	crit := append(warn, schema.Issue{Severity: schema.SeverityCritical})
	assert.Equal(t, ExitCritical, ExitCodeForIssues(crit))
}

func TestGetMaxTitleWidth(t *testing.T) {
	narrow := &contract.Config{Width: 60}
	assert.Equal(t, 20, getMaxTitleWidth(narrow))

	wide := &contract.Config{Width: 200}
	assert.Equal(t, 70, getMaxTitleWidth(wide))

	medium := &contract.Config{Width: 100}
	assert.Equal(t, 50, getMaxTitleWidth(medium))
}
