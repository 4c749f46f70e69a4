package gacha

import (
	"fmt"
	"sort"

	"github.com/lunarforge/reward-engine/internal/domain"
)

// Roll draws one entry from the pool by cumulative-weight selection. The
// draw value is uniform in [1, TotalWeight]; the first entry whose
// cumulative weight reaches the draw wins, so ties resolve to the earlier
// entry in declared table order.
func Roll(pool *domain.RewardPool, rng RandomSource) (domain.RewardRef, int, error) {
	if pool.TotalWeight <= 0 {
		return domain.RewardRef{Kind: domain.RewardNone}, 0, fmt.Errorf("%w: pool %s", domain.ErrEmptyPool, pool.Key)
	}

	draw := rng.IntN(pool.TotalWeight) + 1
	idx := sort.Search(len(pool.Entries), func(i int) bool {
		return pool.Entries[i].CumulWeight >= draw
	})
	if idx >= len(pool.Entries) {
		// Unreachable when cumulative weights are intact; treat as the
		// configuration error it would be.
		return domain.RewardRef{Kind: domain.RewardNone}, 0, fmt.Errorf("%w: pool %s has inconsistent weights", domain.ErrEmptyPool, pool.Key)
	}

	entry := pool.Entries[idx]
	return entry.Reward, entry.PickupGroup, nil
}

// RollPickupSubset picks uniformly among entries whose pickup group is at
// least minGroup. Selection is uniform, not weighted: the guarantee is about
// the tier, not the declared drop rates within it.
func RollPickupSubset(pool *domain.RewardPool, minGroup int, rng RandomSource) (domain.RewardRef, error) {
	candidates := make([]int, 0, len(pool.Entries))
	for i, entry := range pool.Entries {
		if entry.PickupGroup >= minGroup {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return domain.RewardRef{Kind: domain.RewardNone}, fmt.Errorf("%w: pool %s, group >= %d", domain.ErrNoMatchingPickup, pool.Key, minGroup)
	}

	pick := candidates[rng.IntN(len(candidates))]
	return pool.Entries[pick].Reward, nil
}

// rollWeightedEntries runs the cumulative-weight selection over an arbitrary
// entry slice (reward-set randoms, sub-option groups share the algorithm).
func rollWeightedEntries(entries []domain.RewardEntry, totalWeight int, rng RandomSource) (domain.RewardEntry, error) {
	if totalWeight <= 0 {
		return domain.RewardEntry{}, domain.ErrEmptyPool
	}
	draw := rng.IntN(totalWeight) + 1
	idx := sort.Search(len(entries), func(i int) bool {
		return entries[i].CumulWeight >= draw
	})
	if idx >= len(entries) {
		return domain.RewardEntry{}, domain.ErrEmptyPool
	}
	return entries[idx], nil
}
