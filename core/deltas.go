package core

import "github.com/healthspeed/healthspeed/schema"

// ApplyDeltas fills in the score deltas of result by diffing against a
// previously persisted scan summary. Delta computation lives with the
// caller, not the scoring engine, so scoring stays a pure function of the
// issue list.
func ApplyDeltas(result *schema.ScanResult, prev *schema.StoredScanSummary) {
	if result == nil || prev == nil {
		return
	}
	healthDelta := result.Scores.Health - prev.Health
	speedDelta := result.Scores.Speed - prev.Speed
	result.Scores.HealthDelta = &healthDelta
	result.Scores.SpeedDelta = &speedDelta
}
