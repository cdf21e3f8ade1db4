// Package plan defines subscription tiers and their resource limits.
package plan

import (
	"errors"
	"slices"
)

//nolint:gochecknoglobals // sentinel error
var ErrUnknownTier = errors.New("plan: unknown tier")

//nolint:gochecknoglobals // sentinel error
var ErrLimitExceeded = errors.New("plan: resource limit exceeded")

// Tier names. Tenants reference these by string so a plan change is a single
// column update.
const (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// Limits holds per-tier resource ceilings. Zero means unlimited.
type Limits struct {
	MaxEvents    int
	MaxUsers     int
	MaxStorageMB int
	Features     []string
}

var tiers = map[string]Limits{
	TierFree: {
		MaxEvents:    3,
		MaxUsers:     5,
		MaxStorageMB: 512,
		Features:     []string{"events", "registrations"},
	},
	TierPro: {
		MaxEvents:    50,
		MaxUsers:     50,
		MaxStorageMB: 10 * 1024,
		Features:     []string{"events", "registrations", "floor_plans", "api_keys"},
	},
	TierEnterprise: {
		Features: []string{"events", "registrations", "floor_plans", "api_keys", "audit_log"},
	},
}

// LimitsFor returns the limits of a tier.
func LimitsFor(tier string) (Limits, error) {
	l, ok := tiers[tier]
	if !ok {
		return Limits{}, ErrUnknownTier
	}
	return l, nil
}

// Tiers returns the known tier names.
func Tiers() []string {
	return []string{TierFree, TierPro, TierEnterprise}
}

// HasFeature checks if a feature flag is enabled for these limits.
func (l Limits) HasFeature(feature string) bool {
	return slices.Contains(l.Features, feature)
}

// CheckEventQuota fails with ErrLimitExceeded when creating another event
// would exceed the tier's ceiling. A zero ceiling is unlimited.
func (l Limits) CheckEventQuota(currentEvents int64) error {
	if l.MaxEvents > 0 && currentEvents >= int64(l.MaxEvents) {
		return ErrLimitExceeded
	}
	return nil
}

// CheckUserQuota fails with ErrLimitExceeded when adding another member would
// exceed the tier's ceiling. A zero ceiling is unlimited.
func (l Limits) CheckUserQuota(currentUsers int64) error {
	if l.MaxUsers > 0 && currentUsers >= int64(l.MaxUsers) {
		return ErrLimitExceeded
	}
	return nil
}
