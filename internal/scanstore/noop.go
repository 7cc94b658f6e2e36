package scanstore

import (
	"fmt"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

// noopStore is used when persistence is disabled. Reads return empty or
// default values and writes succeed without effect.
type noopStore struct{}

var _ contract.ScanStore = &noopStore{} // Compile-time check

func (n *noopStore) SaveScan(*schema.ScanResult) error { return nil }

func (n *noopStore) GetScan(scanID string) (*schema.ScanResult, error) {
	return nil, fmt.Errorf("scan %s not found", scanID)
}

func (n *noopStore) RecentScans(int) ([]schema.StoredScanSummary, error) {
	return nil, nil
}

func (n *noopStore) LastScanTimestamp() (uint64, bool, error) {
	return 0, false, nil
}

func (n *noopStore) GetAutomationSettings() (schema.AutomationSettings, error) {
	return schema.DefaultAutomationSettings(), nil
}

func (n *noopStore) SetAutomationSettings(schema.AutomationSettings) error { return nil }

func (n *noopStore) ChangelogEntries(int) ([]schema.ChangelogEntry, error) {
	return nil, nil
}

func (n *noopStore) AppendChangelog(schema.ChangelogEntry) error { return nil }

func (n *noopStore) Close() error { return nil }
