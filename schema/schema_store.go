package schema

// StoredScanSummary is the lightweight row returned when listing persisted
// scans. The full ScanResult payload is only loaded on demand.
type StoredScanSummary struct {
	ScanID     string `json:"scan_id"`
	Timestamp  uint64 `json:"timestamp"`
	DurationMs uint64 `json:"duration_ms"`
	Health     int    `json:"health"`
	Speed      int    `json:"speed"`
	IssueCount int    `json:"issue_count"`
}

// AutomationSettings controls the background scheduler. The settings are
// mutated by user-facing configuration and re-read every scheduler iteration.
type AutomationSettings struct {
	AutomationEnabled bool     `json:"automation_enabled"`
	RunSchedule       Schedule `json:"run_schedule"`
	AutoFixEnabled    bool     `json:"auto_fix_enabled"`
}

// DefaultAutomationSettings returns the settings used before the user has
// configured anything: automation off, weekly cadence, no auto-fix.
func DefaultAutomationSettings() AutomationSettings {
	return AutomationSettings{
		AutomationEnabled: false,
		RunSchedule:       WeeklySchedule,
		AutoFixEnabled:    false,
	}
}

// ChangelogEntry is one row of the append-only record of changes the tool
// made to the host (applied fixes, removed files).
type ChangelogEntry struct {
	Timestamp int64  `json:"timestamp"`
	Action    string `json:"action"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Reason    string `json:"reason"`
}
