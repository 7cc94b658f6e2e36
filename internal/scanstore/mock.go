package scanstore

import (
	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
	"github.com/stretchr/testify/mock"
)

// MockScanStore is a mock implementation of ScanStore for testing.
type MockScanStore struct {
	mock.Mock
}

var _ contract.ScanStore = &MockScanStore{} // Compile-time check

// SaveScan implements the ScanStore interface.
func (m *MockScanStore) SaveScan(result *schema.ScanResult) error {
	args := m.Called(result)
	return args.Error(0)
}

// GetScan implements the ScanStore interface.
func (m *MockScanStore) GetScan(scanID string) (*schema.ScanResult, error) {
	args := m.Called(scanID)
	result, _ := args.Get(0).(*schema.ScanResult)
	return result, args.Error(1)
}

// RecentScans implements the ScanStore interface.
func (m *MockScanStore) RecentScans(limit int) ([]schema.StoredScanSummary, error) {
	args := m.Called(limit)
	summaries, _ := args.Get(0).([]schema.StoredScanSummary)
	return summaries, args.Error(1)
}

// LastScanTimestamp implements the ScanStore interface.
func (m *MockScanStore) LastScanTimestamp() (uint64, bool, error) {
	args := m.Called()
	return args.Get(0).(uint64), args.Bool(1), args.Error(2)
}

// GetAutomationSettings implements the ScanStore interface.
func (m *MockScanStore) GetAutomationSettings() (schema.AutomationSettings, error) {
	args := m.Called()
	return args.Get(0).(schema.AutomationSettings), args.Error(1)
}

// SetAutomationSettings implements the ScanStore interface.
func (m *MockScanStore) SetAutomationSettings(settings schema.AutomationSettings) error {
	args := m.Called(settings)
	return args.Error(0)
}

// ChangelogEntries implements the ScanStore interface.
func (m *MockScanStore) ChangelogEntries(limit int) ([]schema.ChangelogEntry, error) {
	args := m.Called(limit)
	entries, _ := args.Get(0).([]schema.ChangelogEntry)
	return entries, args.Error(1)
}

// AppendChangelog implements the ScanStore interface.
func (m *MockScanStore) AppendChangelog(entry schema.ChangelogEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

// Close implements the ScanStore interface.
func (m *MockScanStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
