// Package core implements the scan orchestration engine and scoring model.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

// ErrNoFixHandler is returned by FixIssue when no registered checker
// recognizes the requested action.
var ErrNoFixHandler = errors.New("no handler found for action")

// Engine owns the ordered checker collection, runs scans and dispatches
// fixes. Checkers are logically independent; registration order is preserved
// in scan output but carries no correctness requirement.
type Engine struct {
	checkers []contract.Checker
	scoring  *ScoringEngine
	workers  int
	logger   *slog.Logger
}

// EngineOption customizes an Engine at construction time.
type EngineOption func(*Engine)

// WithWorkers sets the number of concurrent checker workers. Concurrency is
// a performance optimization only; results are reassembled in registration
// order before sorting, so output is deterministic either way.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger used for checker failure reports.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine with an explicitly provided scoring engine.
func NewEngine(scoring *ScoringEngine, opts ...EngineOption) *Engine {
	e := &Engine{
		scoring: scoring,
		workers: contract.DefaultWorkers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register appends a checker to the ordered collection.
func (e *Engine) Register(checker contract.Checker) {
	e.checkers = append(e.checkers, checker)
}

// Checkers returns the registered checkers in registration order.
func (e *Engine) Checkers() []contract.Checker {
	return e.checkers
}

// Scan runs all included checkers and assembles a ScanResult. A checker that
// errors or panics contributes an empty issue list and is logged; one failing
// probe never aborts the scan. Issues are stable-sorted by severity rank so
// equal-severity issues keep their original relative order.
func (e *Engine) Scan(ctx context.Context, options schema.ScanOptions) *schema.ScanResult {
	scanID := uuid.NewString()
	start := time.Now()
	timestamp := uint64(start.Unix())

	sc := &schema.ScanContext{
		ScanID:  scanID,
		Options: options,
	}

	included := make([]contract.Checker, 0, len(e.checkers))
	for _, checker := range e.checkers {
		if shouldRun(checker.Category(), options) {
			included = append(included, checker)
		}
	}

	allIssues := e.runCheckers(ctx, sc, included)
	sort.SliceStable(allIssues, func(i, j int) bool {
		return allIssues[i].Severity.Rank() < allIssues[j].Severity.Rank()
	})

	scores := e.scoring.CalculateScores(allIssues)

	return &schema.ScanResult{
		ScanID:     scanID,
		Timestamp:  timestamp,
		DurationMs: uint64(time.Since(start).Milliseconds()),
		Scores:     scores,
		Issues:     allIssues,
		Details:    defaultScanDetails(),
	}
}

// shouldRun decides inclusion by category. Quick and exclude_* flags are
// advisory; excluded checkers detect them in their own Run.
func shouldRun(category schema.CheckCategory, options schema.ScanOptions) bool {
	switch category {
	case schema.CategorySecurity:
		return options.Security
	case schema.CategoryPerformance:
		return options.Performance
	default:
		return true
	}
}

// runCheckers invokes every included checker, sequentially or through a
// bounded worker pool, and concatenates issues in registration order.
func (e *Engine) runCheckers(ctx context.Context, sc *schema.ScanContext, included []contract.Checker) []schema.Issue {
	perChecker := make([][]schema.Issue, len(included))

	if e.workers <= 1 || len(included) <= 1 {
		for i, checker := range included {
			perChecker[i] = e.safeRun(ctx, checker, sc)
		}
	} else {
		idxCh := make(chan int, len(included))
		var wg sync.WaitGroup
		for range min(e.workers, len(included)) {
			wg.Go(func() {
				for i := range idxCh {
					perChecker[i] = e.safeRun(ctx, included[i], sc)
				}
			})
		}
		for i := range included {
			idxCh <- i
		}
		close(idxCh)
		wg.Wait()
	}

	var all []schema.Issue
	for _, issues := range perChecker {
		all = append(all, issues...)
	}
	return all
}

// safeRun isolates a single checker invocation: a panic inside Run becomes
// an empty issue list plus a log entry.
func (e *Engine) safeRun(ctx context.Context, checker contract.Checker, sc *schema.ScanContext) (issues []schema.Issue) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("checker panicked, skipping its results",
				"checker", checker.Name(), "panic", fmt.Sprint(r))
			issues = nil
		}
	}()
	return checker.Run(ctx, sc)
}

// FixIssue locates the checker that owns the action and invokes its fix.
// The first checker reporting anything other than NotApplicable ends the
// search: a success is returned as-is and a failure is surfaced rather than
// masked by probing further checkers.
func (e *Engine) FixIssue(ctx context.Context, actionID string, params map[string]any) (schema.FixResult, error) {
	for _, checker := range e.checkers {
		outcome := checker.Fix(ctx, actionID, params)
		switch outcome.Status {
		case contract.FixSucceeded:
			return outcome.Result, nil
		case contract.FixFailed:
			return schema.FixResult{}, fmt.Errorf("checker %s failed to fix %s: %w",
				checker.Name(), actionID, outcome.Err)
		}
	}
	return schema.FixResult{}, fmt.Errorf("%w: %s", ErrNoFixHandler, actionID)
}

// defaultScanDetails builds placeholder supplementary details. Checkers are
// heuristics over OS tooling, so details beyond the issue list stay minimal.
func defaultScanDetails() schema.ScanDetails {
	return schema.ScanDetails{
		Security: schema.SecurityDetails{
			OsUpdateStatus: schema.OsUpdateStatus{
				IsCurrent:    true,
				CurrentBuild: "unknown",
			},
			FirewallStatus: schema.FirewallStatus{
				IsActive: true,
				Provider: "unknown",
			},
			OpenPorts:      []schema.PortInfo{},
			VulnerableApps: []schema.VulnerableApp{},
		},
		Performance: schema.PerformanceDetails{
			TopProcesses: []schema.ProcessInfo{},
			StartupItems: []schema.StartupItem{},
		},
	}
}
