// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/healthspeed/healthspeed/schema"
)

// Checker is the pluggable probe contract. Concrete checkers shell out to
// OS-specific utilities and parse text output; they are best-effort
// heuristics and opaque beyond this interface.
type Checker interface {
	// Name returns the stable identifier of the checker.
	Name() string

	// Category decides whether the engine includes the checker in a scan:
	// security checkers run iff options.Security, performance checkers iff
	// options.Performance, any other category always runs.
	Category() schema.CheckCategory

	// Run inspects one aspect of the host and reports issues. Advisory
	// options (quick, exclude_*) must be honored by the checker itself by
	// returning no issues; the engine does not special-case them.
	Run(ctx context.Context, sc *schema.ScanContext) []schema.Issue

	// Fix executes a remediation owned by this checker. A checker that does
	// not recognize the action must return a NotApplicable outcome so
	// dispatch can keep searching; a recognized action that fails must
	// return Failed so the error is surfaced instead of masked.
	Fix(ctx context.Context, actionID string, params map[string]any) FixOutcome
}

// ScanStore is the persisted store boundary. Implementations must serialize
// writes; the automation scheduler and foreground scans may share one store.
type ScanStore interface {
	// SaveScan persists a scan result as an idempotent upsert keyed by scan id.
	SaveScan(result *schema.ScanResult) error

	// GetScan loads a full scan result by id.
	GetScan(scanID string) (*schema.ScanResult, error)

	// RecentScans returns up to limit scan summaries, newest first.
	RecentScans(limit int) ([]schema.StoredScanSummary, error)

	// LastScanTimestamp returns the newest persisted scan timestamp.
	// The boolean is false when no scan has been persisted yet.
	LastScanTimestamp() (uint64, bool, error)

	// GetAutomationSettings returns the persisted scheduler settings,
	// falling back to defaults when none were saved.
	GetAutomationSettings() (schema.AutomationSettings, error)

	// SetAutomationSettings validates and persists scheduler settings.
	SetAutomationSettings(settings schema.AutomationSettings) error

	// ChangelogEntries returns up to limit rows of the append-only changelog,
	// newest first.
	ChangelogEntries(limit int) ([]schema.ChangelogEntry, error)

	// AppendChangelog records one host mutation in the changelog.
	AppendChangelog(entry schema.ChangelogEntry) error

	Close() error
}
