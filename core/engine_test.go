package core

import (
	"context"
	"errors"
	"testing"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChecker is a configurable checker for engine tests.
type stubChecker struct {
	name     string
	category schema.CheckCategory
	issues   []schema.Issue
	panics   bool
	fix      func(actionID string) contract.FixOutcome
	ran      *bool
}

func (s *stubChecker) Name() string                   { return s.name }
func (s *stubChecker) Category() schema.CheckCategory { return s.category }

func (s *stubChecker) Run(_ context.Context, _ *schema.ScanContext) []schema.Issue {
	if s.ran != nil {
		*s.ran = true
	}
	if s.panics {
		panic("probe exploded")
	}
	return s.issues
}

func (s *stubChecker) Fix(_ context.Context, actionID string, _ map[string]any) contract.FixOutcome {
	if s.fix == nil {
		return contract.NotApplicable()
	}
	return s.fix(actionID)
}

func newTestEngine(opts ...EngineOption) *Engine {
	return NewEngine(NewScoringEngine(), opts...)
}

// TestScanCategoryGating verifies security and performance checkers only run
// when their option is set, while other categories always run.
func TestScanCategoryGating(t *testing.T) {
	var securityRan, performanceRan, privacyRan bool

	engine := newTestEngine()
	engine.Register(&stubChecker{name: "sec", category: schema.CategorySecurity, ran: &securityRan})
	engine.Register(&stubChecker{name: "perf", category: schema.CategoryPerformance, ran: &performanceRan})
	engine.Register(&stubChecker{name: "priv", category: schema.CategoryPrivacy, ran: &privacyRan})

	result := engine.Scan(context.Background(), schema.ScanOptions{Security: true, Performance: false})

	assert.True(t, securityRan)
	assert.False(t, performanceRan)
	assert.True(t, privacyRan)
	assert.NotEmpty(t, result.ScanID)
}

// TestScanPerformanceDisabledYieldsNoPerformanceIssues covers the property
// that a disabled category contributes zero issues no matter what the
// checker would report.
func TestScanPerformanceDisabledYieldsNoPerformanceIssues(t *testing.T) {
	engine := newTestEngine()
	engine.Register(&stubChecker{
		name:     "perf",
		category: schema.CategoryPerformance,
		issues:   []schema.Issue{issue("slow", schema.SeverityCritical, schema.ImpactPerformance)},
	})

	result := engine.Scan(context.Background(), schema.ScanOptions{Security: true, Performance: false})
	assert.Empty(t, result.Issues)
	assert.Equal(t, 100, result.Scores.Speed)
}

// TestScanStableSeveritySort verifies issues sort by severity rank while
// equal severities keep their original relative order.
func TestScanStableSeveritySort(t *testing.T) {
	engine := newTestEngine()
	engine.Register(&stubChecker{
		name:     "a",
		category: schema.CategoryPrivacy,
		issues: []schema.Issue{
			issue("info-1", schema.SeverityInfo, schema.ImpactPrivacy),
			issue("warn-1", schema.SeverityWarning, schema.ImpactPrivacy),
		},
	})
	engine.Register(&stubChecker{
		name:     "b",
		category: schema.CategoryPrivacy,
		issues: []schema.Issue{
			issue("crit-1", schema.SeverityCritical, schema.ImpactPrivacy),
			issue("warn-2", schema.SeverityWarning, schema.ImpactPrivacy),
			issue("info-2", schema.SeverityInfo, schema.ImpactPrivacy),
		},
	})

	result := engine.Scan(context.Background(), schema.DefaultScanOptions())

	ids := make([]string, 0, len(result.Issues))
	for _, i := range result.Issues {
		ids = append(ids, i.ID)
	}
	assert.Equal(t, []string{"crit-1", "warn-1", "warn-2", "info-1", "info-2"}, ids)

	// Order is non-decreasing in severity rank.
	for i := 1; i < len(result.Issues); i++ {
		assert.LessOrEqual(t,
			result.Issues[i-1].Severity.Rank(),
			result.Issues[i].Severity.Rank())
	}
}

// TestScanIsolatesPanickingChecker verifies one failing probe never aborts
// the scan and contributes zero issues.
func TestScanIsolatesPanickingChecker(t *testing.T) {
	engine := newTestEngine()
	engine.Register(&stubChecker{name: "boom", category: schema.CategoryPrivacy, panics: true})
	engine.Register(&stubChecker{
		name:     "ok",
		category: schema.CategoryPrivacy,
		issues:   []schema.Issue{issue("survivor", schema.SeverityInfo, schema.ImpactPrivacy)},
	})

	result := engine.Scan(context.Background(), schema.DefaultScanOptions())
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "survivor", result.Issues[0].ID)
}

// TestScanWorkerPoolDeterminism verifies the concurrent path reassembles
// results in registration order before sorting.
func TestScanWorkerPoolDeterminism(t *testing.T) {
	build := func(workers int) []string {
		engine := newTestEngine(WithWorkers(workers))
		for _, name := range []string{"c1", "c2", "c3", "c4"} {
			engine.Register(&stubChecker{
				name:     name,
				category: schema.CategoryPrivacy,
				issues: []schema.Issue{
					issue(name+"-warn", schema.SeverityWarning, schema.ImpactPrivacy),
				},
			})
		}
		result := engine.Scan(context.Background(), schema.DefaultScanOptions())
		ids := make([]string, 0, len(result.Issues))
		for _, i := range result.Issues {
			ids = append(ids, i.ID)
		}
		return ids
	}

	sequential := build(1)
	concurrent := build(4)
	assert.Equal(t, sequential, concurrent)
	assert.Equal(t, []string{"c1-warn", "c2-warn", "c3-warn", "c4-warn"}, sequential)
}

// TestScanUniqueIDs verifies each scan gets a fresh identifier.
func TestScanUniqueIDs(t *testing.T) {
	engine := newTestEngine()
	first := engine.Scan(context.Background(), schema.DefaultScanOptions())
	second := engine.Scan(context.Background(), schema.DefaultScanOptions())
	assert.NotEqual(t, first.ScanID, second.ScanID)
}

// TestFixIssueDispatch exercises the three-way fix dispatch protocol.
func TestFixIssueDispatch(t *testing.T) {
	failure := errors.New("service refused to restart")

	owner := &stubChecker{
		name:     "owner",
		category: schema.CategorySecurity,
		fix: func(actionID string) contract.FixOutcome {
			switch actionID {
			case "enable_firewall":
				return contract.Succeeded(schema.FixResult{Success: true, Message: "firewall enabled"})
			case "restart_service":
				return contract.Failed(failure)
			default:
				return contract.NotApplicable()
			}
		},
	}
	// A later checker that would claim anything; must never be reached once
	// the owner answered.
	greedy := &stubChecker{
		name:     "greedy",
		category: schema.CategorySecurity,
		fix: func(string) contract.FixOutcome {
			return contract.Succeeded(schema.FixResult{Success: true, Message: "spurious"})
		},
	}

	engine := newTestEngine()
	engine.Register(owner)
	engine.Register(greedy)

	t.Run("success returns owning checker result", func(t *testing.T) {
		result, err := engine.FixIssue(context.Background(), "enable_firewall", nil)
		require.NoError(t, err)
		assert.Equal(t, "firewall enabled", result.Message)
	})

	t.Run("owner failure surfaces instead of falling through", func(t *testing.T) {
		_, err := engine.FixIssue(context.Background(), "restart_service", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, failure)
		assert.NotContains(t, err.Error(), "spurious")
	})

	t.Run("unknown action reports no handler found", func(t *testing.T) {
		engine := newTestEngine()
		engine.Register(owner)
		assert.NotPanics(t, func() {
			_, err := engine.FixIssue(context.Background(), "nonexistent_action", map[string]any{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoFixHandler)
			assert.Contains(t, err.Error(), "no handler found")
		})
	})
}

// TestScanResultShape sanity-checks timestamp and details assembly.
func TestScanResultShape(t *testing.T) {
	engine := newTestEngine()
	result := engine.Scan(context.Background(), schema.DefaultScanOptions())

	assert.NotZero(t, result.Timestamp)
	assert.NotNil(t, result.Details.Security.OpenPorts)
	assert.NotNil(t, result.Details.Performance.TopProcesses)
}
