package core

import (
	"fmt"
	"os"

	"github.com/healthspeed/healthspeed/schema"
	"gopkg.in/yaml.v3"
)

// Per-severity score penalties. Health and speed use different tables so a
// critical performance problem hurts the speed score harder than an
// informational one dents health.
var (
	healthPenalty = map[schema.Severity]float64{
		schema.SeverityCritical: 20,
		schema.SeverityWarning:  10,
		schema.SeverityInfo:     2,
	}
	speedPenalty = map[schema.Severity]float64{
		schema.SeverityCritical: 25,
		schema.SeverityWarning:  12,
		schema.SeverityInfo:     3,
	}
)

// bothPenalty is the flat, severity-independent penalty applied to both
// scores for issues in the "both" impact category.
const bothPenalty = 15.0

// ScoringEngine turns an issue list into composite health and speed scores.
// It is a pure function of its inputs plus the weight table; it never reads
// process-wide state.
type ScoringEngine struct {
	weights map[string]float64
}

// NewScoringEngine returns a scoring engine with the default weight table.
// A handful of known issue ids carry overrides; everything else weighs 1.0.
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{
		weights: map[string]float64{
			"windows_update_pending":  1.5,
			"firewall_disabled":       2.0,
			"rdp_port_open":           2.0,
			"excessive_startup_items": 0.8,
		},
	}
}

// NewScoringEngineFromFile returns a scoring engine whose default weights are
// overlaid with entries from a YAML file mapping issue id to multiplier.
func NewScoringEngineFromFile(path string) (*ScoringEngine, error) {
	engine := NewScoringEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}

	overrides := make(map[string]float64)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse weights file %q: %w", path, err)
	}

	for id, w := range overrides {
		if w < 0 {
			return nil, fmt.Errorf("weight for %q cannot be negative (received %v)", id, w)
		}
		engine.weights[id] = w
	}
	return engine, nil
}

// Weight returns the multiplier for an issue id, defaulting to 1.0.
func (se *ScoringEngine) Weight(issueID string) float64 {
	if w, ok := se.weights[issueID]; ok {
		return w
	}
	return 1.0
}

// CalculateScores computes health and speed from an issue list. Scores start
// at 100, accumulate weighted penalties in floating point, clamp to [0,100]
// and truncate to integers. Deltas are left unset; callers diff against a
// previously persisted scan via ApplyDeltas.
func (se *ScoringEngine) CalculateScores(issues []schema.Issue) schema.SystemScores {
	health := 100.0
	speed := 100.0

	for _, issue := range issues {
		w := se.Weight(issue.ID)

		switch issue.ImpactCategory {
		case schema.ImpactSecurity:
			health -= healthPenalty[issue.Severity] * w
		case schema.ImpactPerformance:
			speed -= speedPenalty[issue.Severity] * w
		case schema.ImpactBoth:
			health -= bothPenalty * w
			speed -= bothPenalty * w
		default:
			// Privacy issues surface in output but move neither score.
		}
	}

	return schema.SystemScores{
		Health: clampScore(health),
		Speed:  clampScore(speed),
	}
}

// clampScore bounds a raw accumulator to [0,100] and truncates, never rounds.
func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
