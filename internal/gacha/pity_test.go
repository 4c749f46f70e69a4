package gacha

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lunarforge/reward-engine/internal/domain"
)

// Standard fixture: A is junk, B is the normal-pity tier, C is the special
// tier. Draw ranges: A 1-70, B 71-95, C 96-100.
func pityFixture() (*domain.RewardPool, *domain.CampaignConfig) {
	pool := testPool("banner",
		currencyEntry("A", 70, 0),
		currencyEntry("B", 25, 2),
		currencyEntry("C", 5, 4),
	)
	campaign := &domain.CampaignConfig{
		PoolKey:            "banner",
		NormalPickupGroup:  2,
		SpecialPickupGroup: 4,
		SpecialTryCount:    90,
	}
	return pool, campaign
}

func TestDrawOnce_OrdinaryDrawAdvancesCounters(t *testing.T) {
	pool, campaign := pityFixture()
	state := domain.PityState{}

	outcome, err := drawOnce(context.Background(), pool, campaign, &state, NewFixedRNG(0))

	assert.NoError(t, err)
	assert.Equal(t, "A", outcome.Reward.Key)
	assert.False(t, outcome.NormalPity)
	assert.False(t, outcome.SpecialPity)
	assert.Equal(t, 1, state.Normal)
	assert.Equal(t, 1, state.Special)
}

func TestDrawOnce_NormalPityOnTenthDraw(t *testing.T) {
	pool, campaign := pityFixture()
	state := domain.PityState{Normal: 9, Special: 20}

	// Guaranteed roll picks uniformly among B and C; scripted to B.
	outcome, err := drawOnce(context.Background(), pool, campaign, &state, NewFixedRNG(0))

	assert.NoError(t, err)
	assert.True(t, outcome.NormalPity)
	assert.Equal(t, "B", outcome.Reward.Key)
	assert.Equal(t, campaign.NormalPickupGroup, outcome.PickupGroup)
	assert.Equal(t, 0, state.Normal, "normal counter resets after trigger")
	assert.Equal(t, 21, state.Special, "special counter keeps counting")
}

func TestDrawOnce_SpecialPityAtCeiling(t *testing.T) {
	pool, campaign := pityFixture()
	state := domain.PityState{Normal: 3, Special: 89}

	// Only C sits at the special tier.
	outcome, err := drawOnce(context.Background(), pool, campaign, &state, NewFixedRNG(0))

	assert.NoError(t, err)
	assert.True(t, outcome.SpecialPity)
	assert.False(t, outcome.NormalPity)
	assert.Equal(t, "C", outcome.Reward.Key)
	assert.Equal(t, 0, state.Normal)
	assert.Equal(t, 0, state.Special)
}

func TestDrawOnce_SpecialPreemptsNormal(t *testing.T) {
	pool, campaign := pityFixture()
	// Both thresholds fire on this draw; the stronger guarantee wins.
	state := domain.PityState{Normal: 9, Special: 89}

	outcome, err := drawOnce(context.Background(), pool, campaign, &state, NewFixedRNG(0))

	assert.NoError(t, err)
	assert.True(t, outcome.SpecialPity)
	assert.False(t, outcome.NormalPity)
	assert.Equal(t, 0, state.Normal)
	assert.Equal(t, 0, state.Special)
}

func TestDrawOnce_OrganicSpecialDropResetsBothCounters(t *testing.T) {
	pool, campaign := pityFixture()
	state := domain.PityState{Normal: 5, Special: 40}

	// Draw 100 lands on C organically.
	outcome, err := drawOnce(context.Background(), pool, campaign, &state, NewFixedRNG(99))

	assert.NoError(t, err)
	assert.Equal(t, "C", outcome.Reward.Key)
	assert.False(t, outcome.SpecialPity, "organic drop is not a pity trigger")
	assert.Equal(t, 0, state.Normal)
	assert.Equal(t, 0, state.Special)
}

func TestDrawOnce_OrganicNormalDropResetsNormalOnly(t *testing.T) {
	pool, campaign := pityFixture()
	state := domain.PityState{Normal: 5, Special: 40}

	// Draw 80 lands on B organically.
	outcome, err := drawOnce(context.Background(), pool, campaign, &state, NewFixedRNG(79))

	assert.NoError(t, err)
	assert.Equal(t, "B", outcome.Reward.Key)
	assert.Equal(t, 0, state.Normal)
	assert.Equal(t, 41, state.Special)
}

func TestDrawOnce_DegradesWhenPityTierEmpty(t *testing.T) {
	pool, _ := pityFixture()
	// Threshold points above every entry's group; the guarantee cannot be
	// honored, so the draw degrades to an ordinary roll.
	campaign := &domain.CampaignConfig{
		PoolKey:            "banner",
		SpecialPickupGroup: 9,
		SpecialTryCount:    1,
	}
	state := domain.PityState{}

	outcome, err := drawOnce(context.Background(), pool, campaign, &state, NewFixedRNG(0))

	assert.NoError(t, err)
	assert.False(t, outcome.SpecialPity)
	assert.Equal(t, "A", outcome.Reward.Key)
	assert.Equal(t, 1, state.Special, "counter untouched by the failed guarantee")
}

func TestDrawOnce_DisabledTiersNeverTrigger(t *testing.T) {
	pool, _ := pityFixture()
	campaign := &domain.CampaignConfig{PoolKey: "banner"}
	state := domain.PityState{Normal: 99, Special: 999}

	outcome, err := drawOnce(context.Background(), pool, campaign, &state, NewFixedRNG(0))

	assert.NoError(t, err)
	assert.False(t, outcome.NormalPity)
	assert.False(t, outcome.SpecialPity)
	assert.Equal(t, "A", outcome.Reward.Key)
}

func TestDrawOnce_GuaranteeWithinTenDraws(t *testing.T) {
	pool, campaign := pityFixture()
	rng := NewSeededRNG(1234)

	state := domain.PityState{}
	sinceTier := 0
	for i := 0; i < 1000; i++ {
		outcome, err := drawOnce(context.Background(), pool, campaign, &state, rng)
		assert.NoError(t, err)

		if outcome.PickupGroup >= campaign.NormalPickupGroup {
			sinceTier = 0
		} else {
			sinceTier++
		}
		assert.Less(t, sinceTier, NormalPityCadence, "draw %d exceeded the normal pity window", i)
	}
}
