// Package daemon runs the background automation loop: wake periodically,
// scan when the configured schedule says a scan is due, optionally apply
// safe fixes, and persist the result.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/healthspeed/healthspeed/core"
	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/license"
	"github.com/healthspeed/healthspeed/schema"
)

// DefaultWakeInterval is how often the loop re-evaluates whether a scan is
// due. The schedule itself is coarser, so waking hourly is plenty.
const DefaultWakeInterval = time.Hour

// Daemon owns the automation loop. Settings and license are re-read every
// iteration so changes take effect without a restart.
type Daemon struct {
	engine   *core.Engine
	store    contract.ScanStore
	licenses *license.Manager
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

// Option customizes a Daemon.
type Option func(*Daemon)

// WithWakeInterval overrides how often the loop wakes up.
func WithWakeInterval(interval time.Duration) Option {
	return func(d *Daemon) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

func New(engine *core.Engine, store contract.ScanStore, licenses *license.Manager, logger *slog.Logger, opts ...Option) *Daemon {
	d := &Daemon{
		engine:   engine,
		store:    store,
		licenses: licenses,
		logger:   logger,
		interval: DefaultWakeInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run blocks until the context is canceled, evaluating the schedule once
// immediately and then on every wake interval. Iteration errors are logged
// and the loop keeps going.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("automation daemon started", "wake_interval", d.interval)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if _, err := d.RunOnce(ctx); err != nil {
			d.logger.Error("automation iteration failed", "error", err)
		}

		select {
		case <-ctx.Done():
			d.logger.Info("automation daemon stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce evaluates the gates and runs at most one scheduled scan. It
// reports whether a scan ran.
func (d *Daemon) RunOnce(ctx context.Context) (bool, error) {
	settings, err := d.store.GetAutomationSettings()
	if err != nil {
		return false, err
	}
	if !settings.AutomationEnabled {
		d.logger.Debug("automation disabled, skipping")
		return false, nil
	}

	lic, err := d.licenses.Load()
	if err != nil {
		return false, err
	}
	if !lic.HasProFeature(license.FeatureAutomation) {
		d.logger.Warn("automation requires a Pro or trial license, skipping",
			"tier", lic.EffectiveTier())
		return false, nil
	}

	due, err := d.scanDue(settings.RunSchedule)
	if err != nil {
		return false, err
	}
	if !due {
		d.logger.Debug("no scan due", "schedule", settings.RunSchedule)
		return false, nil
	}

	return true, d.runScan(ctx, settings)
}

// scanDue compares the newest persisted scan against the schedule interval.
// A store with no scans is always due.
func (d *Daemon) scanDue(schedule schema.Schedule) (bool, error) {
	last, ok, err := d.store.LastScanTimestamp()
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}

	// A persisted timestamp can be ahead of the clock (skew, restored
	// backup); unsigned subtraction would wrap and declare a scan due.
	elapsed := d.now().Unix() - int64(last)
	if elapsed < 0 {
		return false, nil
	}
	return uint64(elapsed) >= schedule.IntervalSeconds(), nil
}

func (d *Daemon) runScan(ctx context.Context, settings schema.AutomationSettings) error {
	d.logger.Info("starting scheduled scan", "schedule", settings.RunSchedule)

	prev, err := d.store.RecentScans(1)
	if err != nil {
		d.logger.Warn("could not load previous scan for deltas", "error", err)
	}

	result := d.engine.Scan(ctx, schema.DefaultScanOptions())
	if len(prev) > 0 {
		core.ApplyDeltas(result, &prev[0])
	}

	if settings.AutoFixEnabled {
		d.applyAutoFixes(ctx, result.Issues)
	}

	// The scan is saved even when auto-fix failed: the record of what was
	// found matters more than the fix outcome.
	if err := d.store.SaveScan(result); err != nil {
		return err
	}

	d.logger.Info("scheduled scan complete",
		"scan_id", result.ScanID,
		"health", result.Scores.Health,
		"speed", result.Scores.Speed,
		"issues", len(result.Issues))
	return nil
}

// applyAutoFixes fires every auto-fixable action and logs outcomes without
// failing the iteration.
func (d *Daemon) applyAutoFixes(ctx context.Context, issues []schema.Issue) {
	for _, issue := range schema.AutoFixableIssues(issues) {
		fixResult, err := d.engine.FixIssue(ctx, issue.Fix.ActionID, issue.Fix.Params)
		if err != nil {
			d.logger.Warn("auto-fix failed", "action", issue.Fix.ActionID, "error", err)
			continue
		}

		d.logger.Info("auto-fix applied", "action", issue.Fix.ActionID, "message", fixResult.Message)

		entry := schema.ChangelogEntry{
			Timestamp: d.now().Unix(),
			Action:    issue.Fix.ActionID,
			Path:      issue.ID,
			Reason:    fixResult.Message,
		}
		if err := d.store.AppendChangelog(entry); err != nil {
			d.logger.Warn("could not record fix in changelog", "error", err)
		}
	}
}
