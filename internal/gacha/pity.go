package gacha

import (
	"context"
	"errors"

	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/logger"
	"github.com/lunarforge/reward-engine/internal/metrics"
)

// DrawOutcome records how a single draw was resolved; the presentation
// layer uses the pity flags to drive its playback sequencing.
type DrawOutcome struct {
	Reward      domain.RewardRef `json:"reward"`
	PickupGroup int              `json:"pickup_group"`
	SpecialPity bool             `json:"special_pity,omitempty"`
	NormalPity  bool             `json:"normal_pity,omitempty"`
}

// drawOnce advances the pity state machine by one draw and returns the
// selected reward. The state is mutated in place; counters never go negative.
//
// Order matters: special pity is the stronger guarantee and pre-empts a
// simultaneous normal-pity trigger. If a guaranteed path finds no matching
// entries the draw degrades to a normal roll; that is graceful degradation,
// not an error, but it is logged as a configuration smell.
func drawOnce(ctx context.Context, pool *domain.RewardPool, campaign *domain.CampaignConfig, state *domain.PityState, rng RandomSource) (DrawOutcome, error) {
	state.Normal++
	state.Special++

	if campaign.SpecialEnabled() && state.Special >= campaign.SpecialTryCount {
		reward, err := RollPickupSubset(pool, campaign.SpecialPickupGroup, rng)
		switch {
		case err == nil:
			state.Normal = 0
			state.Special = 0
			metrics.PityTriggers.WithLabelValues(pool.Key, metrics.PityTierSpecial).Inc()
			return DrawOutcome{Reward: reward, PickupGroup: campaign.SpecialPickupGroup, SpecialPity: true}, nil
		case errors.Is(err, domain.ErrNoMatchingPickup):
			logger.FromContext(ctx).Warn(LogMsgPityPoolEmpty,
				LogFieldPool, pool.Key, LogFieldPickupGroup, campaign.SpecialPickupGroup)
		default:
			return DrawOutcome{}, err
		}
	} else if campaign.NormalEnabled() && state.Normal >= NormalPityCadence {
		reward, err := RollPickupSubset(pool, campaign.NormalPickupGroup, rng)
		switch {
		case err == nil:
			state.Normal = 0
			metrics.PityTriggers.WithLabelValues(pool.Key, metrics.PityTierNormal).Inc()
			return DrawOutcome{Reward: reward, PickupGroup: campaign.NormalPickupGroup, NormalPity: true}, nil
		case errors.Is(err, domain.ErrNoMatchingPickup):
			logger.FromContext(ctx).Warn(LogMsgPityPoolEmpty,
				LogFieldPool, pool.Key, LogFieldPickupGroup, campaign.NormalPickupGroup)
		default:
			return DrawOutcome{}, err
		}
	}

	reward, group, err := Roll(pool, rng)
	if err != nil {
		return DrawOutcome{}, err
	}

	// A sufficiently rare organic drop resets the pity clock: pity bounds
	// the worst-case wait, it does not stack on top of lucky draws.
	if campaign.SpecialEnabled() && group >= campaign.SpecialPickupGroup {
		state.Normal = 0
		state.Special = 0
	} else if campaign.NormalEnabled() && group >= campaign.NormalPickupGroup {
		state.Normal = 0
	}

	return DrawOutcome{Reward: reward, PickupGroup: group}, nil
}
