package daemon

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/healthspeed/healthspeed/core"
	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/license"
	"github.com/healthspeed/healthspeed/internal/scanstore"
	"github.com/healthspeed/healthspeed/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fixedChecker emits a constant issue set for daemon tests.
type fixedChecker struct {
	issues []schema.Issue
	fixes  int
}

func (c *fixedChecker) Name() string                      { return "fixed" }
func (c *fixedChecker) Category() schema.CheckCategory    { return schema.CategoryPerformance }
func (c *fixedChecker) Run(context.Context, *schema.ScanContext) []schema.Issue {
	return c.issues
}

func (c *fixedChecker) Fix(_ context.Context, actionID string, _ map[string]any) contract.FixOutcome {
	if actionID != "fix_it" {
		return contract.NotApplicable()
	}
	c.fixes++
	return contract.Succeeded(schema.FixResult{Success: true, Message: "fixed"})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// proManager returns a license manager backed by a saved Pro license.
func proManager(t *testing.T) *license.Manager {
	t.Helper()
	mgr := license.NewManager(filepath.Join(t.TempDir(), "license.json"))
	key := "HSPC-AAAA-AAAA-AAAA-000C"
	_, err := mgr.ActivatePro(key)
	require.NoError(t, err)
	return mgr
}

// freeManager returns a manager with no license file, resolving to free.
func freeManager(t *testing.T) *license.Manager {
	t.Helper()
	return license.NewManager(filepath.Join(t.TempDir(), "license.json"))
}

func newTestDaemon(store contract.ScanStore, licenses *license.Manager, checker contract.Checker) *Daemon {
	engine := core.NewEngine(core.NewScoringEngine())
	if checker != nil {
		engine.Register(checker)
	}
	return New(engine, store, licenses, testLogger())
}

func enabledSettings() schema.AutomationSettings {
	return schema.AutomationSettings{
		AutomationEnabled: true,
		RunSchedule:       schema.DailySchedule,
	}
}

func TestRunOnceAutomationDisabled(t *testing.T) {
	store := &scanstore.MockScanStore{}
	store.On("GetAutomationSettings").Return(schema.DefaultAutomationSettings(), nil)

	d := newTestDaemon(store, proManager(t), nil)
	ran, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	store.AssertNotCalled(t, "SaveScan", mock.Anything)
}

func TestRunOnceLicenseGate(t *testing.T) {
	store := &scanstore.MockScanStore{}
	store.On("GetAutomationSettings").Return(enabledSettings(), nil)

	d := newTestDaemon(store, freeManager(t), nil)
	ran, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	store.AssertNotCalled(t, "SaveScan", mock.Anything)
}

func TestRunOnceNotDue(t *testing.T) {
	store := &scanstore.MockScanStore{}
	store.On("GetAutomationSettings").Return(enabledSettings(), nil)
	// A scan from one minute ago is well within the daily interval.
	store.On("LastScanTimestamp").Return(uint64(time.Now().Unix()-60), true, nil)

	d := newTestDaemon(store, proManager(t), nil)
	ran, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	store.AssertNotCalled(t, "SaveScan", mock.Anything)
}

func TestRunOnceNotDueWithFutureTimestamp(t *testing.T) {
	store := &scanstore.MockScanStore{}
	store.On("GetAutomationSettings").Return(enabledSettings(), nil)
	// Clock skew or a restored backup can leave the persisted timestamp
	// ahead of the clock; that must not count as overdue.
	store.On("LastScanTimestamp").Return(uint64(time.Now().Unix()+3600), true, nil)

	d := newTestDaemon(store, proManager(t), nil)
	ran, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	store.AssertNotCalled(t, "SaveScan", mock.Anything)
}

func TestRunOnceScansWhenDue(t *testing.T) {
	store := &scanstore.MockScanStore{}
	store.On("GetAutomationSettings").Return(enabledSettings(), nil)
	store.On("LastScanTimestamp").Return(uint64(0), false, nil)
	store.On("RecentScans", 1).Return([]schema.StoredScanSummary(nil), nil)
	store.On("SaveScan", mock.AnythingOfType("*schema.ScanResult")).Return(nil)

	checker := &fixedChecker{issues: []schema.Issue{{
		ID:             "slow_thing",
		Severity:       schema.SeverityWarning,
		Title:          "Something is slow",
		ImpactCategory: schema.ImpactPerformance,
	}}}

	d := newTestDaemon(store, proManager(t), checker)
	ran, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)

	store.AssertCalled(t, "SaveScan", mock.AnythingOfType("*schema.ScanResult"))
	assert.Zero(t, checker.fixes, "auto-fix is off by default")
}

func TestRunOnceAppliesDeltas(t *testing.T) {
	store := &scanstore.MockScanStore{}
	store.On("GetAutomationSettings").Return(enabledSettings(), nil)
	store.On("LastScanTimestamp").Return(uint64(time.Now().Unix()-2*86_400), true, nil)
	store.On("RecentScans", 1).Return([]schema.StoredScanSummary{
		{ScanID: "prev", Health: 70, Speed: 80},
	}, nil)

	var saved *schema.ScanResult
	store.On("SaveScan", mock.AnythingOfType("*schema.ScanResult")).Run(func(args mock.Arguments) {
		saved = args.Get(0).(*schema.ScanResult)
	}).Return(nil)

	d := newTestDaemon(store, proManager(t), nil)
	ran, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	require.True(t, ran)

	require.NotNil(t, saved)
	require.NotNil(t, saved.Scores.HealthDelta)
	assert.Equal(t, 30, *saved.Scores.HealthDelta) // clean scan is 100 vs 70
	require.NotNil(t, saved.Scores.SpeedDelta)
	assert.Equal(t, 20, *saved.Scores.SpeedDelta)
}

func TestRunOnceAutoFix(t *testing.T) {
	settings := enabledSettings()
	settings.AutoFixEnabled = true

	store := &scanstore.MockScanStore{}
	store.On("GetAutomationSettings").Return(settings, nil)
	store.On("LastScanTimestamp").Return(uint64(0), false, nil)
	store.On("RecentScans", 1).Return([]schema.StoredScanSummary(nil), nil)
	store.On("SaveScan", mock.AnythingOfType("*schema.ScanResult")).Return(nil)
	store.On("AppendChangelog", mock.AnythingOfType("schema.ChangelogEntry")).Return(nil)

	checker := &fixedChecker{issues: []schema.Issue{
		{
			ID:             "fixable",
			Severity:       schema.SeverityWarning,
			Title:          "Fixable issue",
			ImpactCategory: schema.ImpactPerformance,
			Fix:            &schema.FixAction{ActionID: "fix_it", Label: "Fix", IsAutoFix: true},
		},
		{
			ID:             "manual",
			Severity:       schema.SeverityInfo,
			Title:          "Manual issue",
			ImpactCategory: schema.ImpactPerformance,
			Fix:            &schema.FixAction{ActionID: "manual_fix", Label: "Fix", IsAutoFix: false},
		},
	}}

	d := newTestDaemon(store, proManager(t), checker)
	ran, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	require.True(t, ran)

	assert.Equal(t, 1, checker.fixes, "only the auto-fixable action runs")
	store.AssertCalled(t, "AppendChangelog", mock.AnythingOfType("schema.ChangelogEntry"))
	store.AssertCalled(t, "SaveScan", mock.AnythingOfType("*schema.ScanResult"))
}

func TestRunOnceSavesDespiteFixFailure(t *testing.T) {
	settings := enabledSettings()
	settings.AutoFixEnabled = true

	store := &scanstore.MockScanStore{}
	store.On("GetAutomationSettings").Return(settings, nil)
	store.On("LastScanTimestamp").Return(uint64(0), false, nil)
	store.On("RecentScans", 1).Return([]schema.StoredScanSummary(nil), nil)
	store.On("SaveScan", mock.AnythingOfType("*schema.ScanResult")).Return(nil)

	// The issue advertises an action no checker handles, so the fix fails.
	checker := &fixedChecker{issues: []schema.Issue{{
		ID:             "broken",
		Severity:       schema.SeverityCritical,
		Title:          "Broken",
		ImpactCategory: schema.ImpactSecurity,
		Fix:            &schema.FixAction{ActionID: "ghost_action", Label: "Fix", IsAutoFix: true},
	}}}

	d := newTestDaemon(store, proManager(t), checker)
	ran, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	require.True(t, ran)

	store.AssertCalled(t, "SaveScan", mock.AnythingOfType("*schema.ScanResult"))
}

func TestRunLoopStopsOnCancel(t *testing.T) {
	store := &scanstore.MockScanStore{}
	store.On("GetAutomationSettings").Return(schema.DefaultAutomationSettings(), nil)

	d := newTestDaemon(store, proManager(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop on cancel")
	}
}
