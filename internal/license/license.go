// Package license implements tier resolution, key validation and the
// license file boundary for the freemium model.
package license

import "time"

// Tier is the license level controlling feature availability.
type Tier string

// All tiers supported.
const (
	TierFree  Tier = "free"
	TierTrial Tier = "trial"
	TierPro   Tier = "pro"
)

// ProFeature is a capability restricted to paying (or trialing) users.
type ProFeature string

// All pro features supported.
const (
	// FeatureAutomation covers scheduled scans and auto-fix routines.
	FeatureAutomation ProFeature = "automation"
)

// TrialDuration is how long a fresh trial lasts.
const TrialDuration = 14 * 24 * time.Hour

// License holds the persisted license state. Only a trial carries an expiry.
type License struct {
	Key         *string `json:"key,omitempty"`
	Tier        Tier    `json:"tier"`
	ActivatedAt int64   `json:"activated_at"`
	ExpiresAt   *int64  `json:"expires_at,omitempty"`
}

// Default returns the free license used when no file exists.
func Default() License {
	return License{
		Tier:        TierFree,
		ActivatedAt: time.Now().Unix(),
	}
}

// IsTrialExpired reports whether a trial license has run out. Non-trial
// licenses never expire through this path.
func (l *License) IsTrialExpired() bool {
	if l.Tier != TierTrial || l.ExpiresAt == nil {
		return false
	}
	return time.Now().Unix() > *l.ExpiresAt
}

// EffectiveTier is the single source of entitlement truth: an expired trial
// resolves to free, everything else passes through unchanged. Callers must
// never gate on the raw Tier field.
func (l *License) EffectiveTier() Tier {
	if l.Tier == TierTrial && l.IsTrialExpired() {
		return TierFree
	}
	return l.Tier
}

// HasProFeature reports whether a pro capability is available under the
// effective tier.
func (l *License) HasProFeature(feature ProFeature) bool {
	tier := l.EffectiveTier()
	switch feature {
	case FeatureAutomation:
		return tier == TierPro || tier == TierTrial
	default:
		return false
	}
}

// TrialDaysRemaining returns whole days left in a trial, or 0 for non-trial
// and expired licenses.
func (l *License) TrialDaysRemaining() int64 {
	if l.Tier != TierTrial || l.ExpiresAt == nil {
		return 0
	}
	remaining := *l.ExpiresAt - time.Now().Unix()
	if remaining <= 0 {
		return 0
	}
	return remaining / 86_400
}
