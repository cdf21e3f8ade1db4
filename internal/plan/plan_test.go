package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventlane/eventlane/internal/plan"
)

func TestLimitsFor(t *testing.T) {
	t.Parallel()

	free, err := plan.LimitsFor(plan.TierFree)
	require.NoError(t, err)
	assert.Equal(t, 3, free.MaxEvents)
	assert.Equal(t, 5, free.MaxUsers)

	pro, err := plan.LimitsFor(plan.TierPro)
	require.NoError(t, err)
	assert.Equal(t, 50, pro.MaxEvents)

	ent, err := plan.LimitsFor(plan.TierEnterprise)
	require.NoError(t, err)
	assert.Zero(t, ent.MaxEvents, "enterprise is unlimited")
	assert.Zero(t, ent.MaxUsers)
}

func TestLimitsFor_UnknownTier(t *testing.T) {
	t.Parallel()

	_, err := plan.LimitsFor("platinum")
	require.ErrorIs(t, err, plan.ErrUnknownTier)

	_, err = plan.LimitsFor("")
	require.ErrorIs(t, err, plan.ErrUnknownTier)
}

func TestTiers(t *testing.T) {
	t.Parallel()

	names := plan.Tiers()
	require.Len(t, names, 3)
	for _, name := range names {
		_, err := plan.LimitsFor(name)
		assert.NoError(t, err, name)
	}
}

func TestLimits_HasFeature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier    string
		feature string
		want    bool
	}{
		{plan.TierFree, "events", true},
		{plan.TierFree, "floor_plans", false},
		{plan.TierFree, "api_keys", false},
		{plan.TierFree, "audit_log", false},
		{plan.TierPro, "floor_plans", true},
		{plan.TierPro, "api_keys", true},
		{plan.TierPro, "audit_log", false},
		{plan.TierEnterprise, "floor_plans", true},
		{plan.TierEnterprise, "audit_log", true},
	}

	for _, tt := range tests {
		t.Run(tt.tier+"/"+tt.feature, func(t *testing.T) {
			t.Parallel()

			l, err := plan.LimitsFor(tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.HasFeature(tt.feature))
		})
	}
}

func TestLimits_CheckEventQuota(t *testing.T) {
	t.Parallel()

	free, err := plan.LimitsFor(plan.TierFree)
	require.NoError(t, err)

	assert.NoError(t, free.CheckEventQuota(0))
	assert.NoError(t, free.CheckEventQuota(2))
	assert.ErrorIs(t, free.CheckEventQuota(3), plan.ErrLimitExceeded)
	assert.ErrorIs(t, free.CheckEventQuota(100), plan.ErrLimitExceeded)
}

func TestLimits_CheckUserQuota(t *testing.T) {
	t.Parallel()

	free, err := plan.LimitsFor(plan.TierFree)
	require.NoError(t, err)

	assert.NoError(t, free.CheckUserQuota(4))
	assert.ErrorIs(t, free.CheckUserQuota(5), plan.ErrLimitExceeded)
}

// TestLimits_ZeroMeansUnlimited: the enterprise tier has no ceilings.
func TestLimits_ZeroMeansUnlimited(t *testing.T) {
	t.Parallel()

	ent, err := plan.LimitsFor(plan.TierEnterprise)
	require.NoError(t, err)

	assert.NoError(t, ent.CheckEventQuota(1_000_000))
	assert.NoError(t, ent.CheckUserQuota(1_000_000))
}
