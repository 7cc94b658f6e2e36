package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSeverityRank verifies the severity ordering used by the engine's sort.
func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityCritical.Rank(), SeverityWarning.Rank())
	assert.Less(t, SeverityWarning.Rank(), SeverityInfo.Rank())
	assert.Greater(t, Severity("bogus").Rank(), SeverityInfo.Rank())
}

// TestScheduleIntervalSeconds verifies the fixed-seconds schedule mapping.
func TestScheduleIntervalSeconds(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		expected uint64
	}{
		{"daily", DailySchedule, 86_400},
		{"weekly", WeeklySchedule, 7 * 86_400},
		{"monthly", MonthlySchedule, 30 * 86_400},
		{"unknown falls back to weekly", Schedule("hourly"), 7 * 86_400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.schedule.IntervalSeconds())
		})
	}
}

// TestWorstSeverity verifies worst-severity selection for exit-code mapping.
func TestWorstSeverity(t *testing.T) {
	tests := []struct {
		name     string
		issues   []Issue
		expected Severity
		found    bool
	}{
		{"empty", nil, "", false},
		{
			"single info",
			[]Issue{{Severity: SeverityInfo}},
			SeverityInfo, true,
		},
		{
			"critical beats warning",
			[]Issue{{Severity: SeverityWarning}, {Severity: SeverityCritical}, {Severity: SeverityInfo}},
			SeverityCritical, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worst, ok := WorstSeverity(tt.issues)
			assert.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.expected, worst)
			}
		})
	}
}

// TestAutoFixableIssues verifies only auto-fixable fix actions are selected.
func TestAutoFixableIssues(t *testing.T) {
	issues := []Issue{
		{ID: "a", Fix: &FixAction{ActionID: "fix_a", IsAutoFix: true}},
		{ID: "b", Fix: &FixAction{ActionID: "fix_b", IsAutoFix: false}},
		{ID: "c"},
		{ID: "d", Fix: &FixAction{ActionID: "fix_d", IsAutoFix: true}},
	}

	out := AutoFixableIssues(issues)
	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "d", out[1].ID)
}

// TestDefaultScanOptions verifies a full scan is the default.
func TestDefaultScanOptions(t *testing.T) {
	opts := DefaultScanOptions()
	assert.True(t, opts.Security)
	assert.True(t, opts.Performance)
	assert.False(t, opts.Quick)
	assert.False(t, opts.ExcludeApps)
	assert.False(t, opts.ExcludeStartup)
}
