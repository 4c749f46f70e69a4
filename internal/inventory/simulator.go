package inventory

import (
	"context"
	"fmt"

	"github.com/lunarforge/reward-engine/internal/catalog"
	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/logger"
)

// AdmitFunc is the per-grant admissibility check. It runs for every grant in
// the working batch, even when capacity enforcement is off: non-inventory
// constraints (currency floors) are orthogonal to slot capacity.
type AdmitFunc func(ctx context.Context, grant domain.RewardGrant) error

// Simulator predicts the inventory effect of a grant batch without touching
// persistent state. It is the sole admission gate: a batch that passes here
// is guaranteed to commit without capacity rollbacks.
type Simulator struct {
	catalog catalog.Provider
}

// NewSimulator creates a Simulator over the given catalog.
func NewSimulator(cat catalog.Provider) *Simulator {
	return &Simulator{catalog: cat}
}

// Simulate merges stackable grants, projects slot usage against the player's
// durable state, and returns the adjusted batch. It has no side effects and
// no hidden randomness: the same inputs always yield the same decision.
//
// The pending deltas are inventory changes already decided earlier in the
// same transaction but not yet visible in the snapshot; they adjust the
// baseline slot count before the batch itself is walked.
func (s *Simulator) Simulate(ctx context.Context, batch domain.GrantBatch, snapshot *domain.InventorySnapshot, pending []domain.PendingDelta, maxCapacity int, enforceCapacity bool, admit AdmitFunc) (domain.GrantBatch, error) {
	log := logger.FromContext(ctx)

	working := s.mergeBatch(ctx, batch)

	// Baseline slot usage: current snapshot plus pending deltas.
	slots := snapshot.SlotCount()
	for _, d := range pending {
		meta, ok := s.catalog.LookupItemMeta(d.ItemKey)
		if !ok || !meta.OccupiesSlot {
			continue
		}
		slots += s.slotDelta(meta, snapshot.Amount(d.ItemKey), d.Amount)
	}

	for _, grant := range working {
		if admit != nil {
			if err := admit(ctx, grant); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", domain.ErrRewardRejected, grant.Key, err)
			}
		}

		if !enforceCapacity || grant.Kind != domain.RewardItem {
			continue
		}
		meta, ok := s.catalog.LookupItemMeta(grant.Key)
		if !ok || !meta.OccupiesSlot {
			continue
		}

		// Each grant's slot effect is evaluated against the player's
		// on-record amount, not a batch-local running total. This is a
		// conservative approximation: it can over-count, never under-count.
		slots += s.slotDelta(meta, snapshot.Amount(grant.Key), grant.Amount)
		if slots > maxCapacity {
			log.Warn(LogMsgInventoryFull, LogFieldItem, grant.Key, LogFieldSlots, slots, LogFieldCapacity, maxCapacity)
			return nil, fmt.Errorf("%w: need %d slots, capacity %d", domain.ErrCapacityExceeded, slots, maxCapacity)
		}
	}

	return working, nil
}

// mergeBatch partitions the batch: stackable item grants sharing a key are
// summed into one grant (net-zero merges are dropped), non-stackable and
// non-item grants pass through untouched. Merge order is the key's first
// occurrence, so results are stable.
func (s *Simulator) mergeBatch(ctx context.Context, batch domain.GrantBatch) domain.GrantBatch {
	log := logger.FromContext(ctx)

	var passthrough domain.GrantBatch
	var nonStackable domain.GrantBatch
	merged := make(map[string]int)
	var mergeOrder []string

	for _, grant := range batch {
		if grant.Kind != domain.RewardItem {
			passthrough = append(passthrough, grant)
			continue
		}

		meta, ok := s.catalog.LookupItemMeta(grant.Key)
		if !ok {
			log.Warn(LogMsgUnknownItem, LogFieldItem, grant.Key)
			continue
		}

		if meta.Stackable() {
			if _, seen := merged[grant.Key]; !seen {
				mergeOrder = append(mergeOrder, grant.Key)
			}
			merged[grant.Key] += grant.Amount
		} else {
			nonStackable = append(nonStackable, grant)
		}
	}

	working := passthrough
	for _, key := range mergeOrder {
		if amount := merged[key]; amount != 0 {
			working = append(working, domain.RewardGrant{Kind: domain.RewardItem, Key: key, Amount: amount})
		}
	}
	return append(working, nonStackable...)
}

// slotDelta projects how one signed item delta changes occupied slots, given
// the player's held amount. Non-stackable items cost one slot per unit;
// stackable items cost at most one slot, gained on first acquisition and
// freed on full depletion.
func (s *Simulator) slotDelta(meta *domain.ItemMeta, held, amount int) int {
	if !meta.Stackable() {
		if amount > 0 {
			return amount
		}
		if amount < 0 {
			decrease := -amount
			if held < decrease {
				decrease = held
			}
			return -decrease
		}
		return 0
	}

	switch {
	case amount > 0 && held == 0:
		return 1
	case amount < 0 && held > 0 && held+amount <= 0:
		return -1
	default:
		return 0
	}
}
