// Package schema has configs, models and shared constants for all parts of hspc.
package schema

// ScanOptions holds the toggles that shape a single scan. The options are
// immutable once a scan starts; checkers read them through the ScanContext.
type ScanOptions struct {
	Security       bool `json:"security"`
	Performance    bool `json:"performance"`
	Quick          bool `json:"quick"`
	ExcludeApps    bool `json:"exclude_apps"`
	ExcludeStartup bool `json:"exclude_startup"`
}

// DefaultScanOptions returns the options used for a full scan.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Security:    true,
		Performance: true,
	}
}

// ScanContext carries the immutable per-scan state handed to every checker.
type ScanContext struct {
	ScanID  string
	Options ScanOptions
}

// Issue represents one detected problem. An issue is created by exactly one
// checker during one scan and is immutable afterwards. The ID is stable per
// issue type, not globally unique across scans.
type Issue struct {
	ID             string         `json:"id"`
	Severity       Severity       `json:"severity"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	ImpactCategory ImpactCategory `json:"impact_category"`
	Fix            *FixAction     `json:"fix,omitempty"`
}

// FixAction describes a remediation that the checker owning the issue can
// execute. IsAutoFix is a contract that the action is safe to invoke without
// interactive confirmation.
type FixAction struct {
	ActionID  string         `json:"action_id"`
	Label     string         `json:"label"`
	IsAutoFix bool           `json:"is_auto_fix"`
	Params    map[string]any `json:"params"`
}

// FixResult is the outcome of a successfully dispatched fix action.
type FixResult struct {
	Success           bool    `json:"success"`
	Message           string  `json:"message"`
	RollbackAvailable bool    `json:"rollback_available"`
	RestorePointID    *string `json:"restore_point_id,omitempty"`
}

// SystemScores holds the two composite scores for a scan. Deltas compare
// against a previously persisted scan and are computed by the caller, never
// by the scoring engine itself.
type SystemScores struct {
	Health      int  `json:"health"`
	Speed       int  `json:"speed"`
	HealthDelta *int `json:"health_delta,omitempty"`
	SpeedDelta  *int `json:"speed_delta,omitempty"`
}

// ScanResult is the complete outcome of one scan, persisted verbatim.
type ScanResult struct {
	ScanID     string       `json:"scan_id"`
	Timestamp  uint64       `json:"timestamp"`
	DurationMs uint64       `json:"duration_ms"`
	Scores     SystemScores `json:"scores"`
	Issues     []Issue      `json:"issues"`
	Details    ScanDetails  `json:"details"`
}

// ScanDetails holds supplementary facts gathered during a scan. Checkers are
// best-effort heuristics, so every field here may be a placeholder.
type ScanDetails struct {
	Security    SecurityDetails    `json:"security"`
	Performance PerformanceDetails `json:"performance"`
}

// SecurityDetails summarizes the security posture observed during a scan.
type SecurityDetails struct {
	OsUpdateStatus OsUpdateStatus  `json:"os_update_status"`
	FirewallStatus FirewallStatus  `json:"firewall_status"`
	OpenPorts      []PortInfo      `json:"open_ports"`
	VulnerableApps []VulnerableApp `json:"vulnerable_apps"`
}

// PerformanceDetails summarizes resource usage observed during a scan.
type PerformanceDetails struct {
	SystemMetrics SystemMetrics `json:"system_metrics"`
	TopProcesses  []ProcessInfo `json:"top_processes"`
	StartupItems  []StartupItem `json:"startup_items"`
}

// OsUpdateStatus reports whether the operating system is current.
type OsUpdateStatus struct {
	IsCurrent      bool    `json:"is_current"`
	CurrentBuild   string  `json:"current_build"`
	LatestBuild    *string `json:"latest_build,omitempty"`
	PendingUpdates uint32  `json:"pending_updates"`
}

// FirewallStatus reports the host firewall state.
type FirewallStatus struct {
	IsActive bool   `json:"is_active"`
	Provider string `json:"provider"`
}

// PortInfo describes one listening network port.
type PortInfo struct {
	Port     uint16  `json:"port"`
	Protocol string  `json:"protocol"`
	Service  *string `json:"service,omitempty"`
	Process  *string `json:"process,omitempty"`
}

// VulnerableApp describes an installed application with a known CVE.
type VulnerableApp struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	CVEID    string `json:"cve_id"`
	Severity string `json:"severity"`
}

// SystemMetrics is a point-in-time snapshot of resource usage.
type SystemMetrics struct {
	CPUUsage      float64 `json:"cpu_usage"`
	MemoryUsedGB  float64 `json:"memory_used_gb"`
	MemoryTotalGB float64 `json:"memory_total_gb"`
	DiskUsedGB    float64 `json:"disk_used_gb"`
	DiskTotalGB   float64 `json:"disk_total_gb"`
}

// ProcessInfo describes one running process.
type ProcessInfo struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
	MemoryMB   float64 `json:"memory_mb"`
}

// StartupItem describes one program configured to launch at login.
type StartupItem struct {
	Name             string `json:"name"`
	Path             string `json:"path"`
	EstimatedDelayMs uint32 `json:"estimated_delay_ms"`
	CanDisable       bool   `json:"can_disable"`
}
