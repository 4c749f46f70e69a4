package gacha

import (
	"context"
	"fmt"

	"github.com/lunarforge/reward-engine/internal/catalog"
	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/logger"
)

// Expander recursively flattens composite reward references into atomic
// grants. It is stateless apart from the injected catalog and random source;
// a fresh visiting set is tracked per Expand call to detect cyclic reward
// set definitions.
type Expander struct {
	catalog catalog.Provider
	rng     RandomSource
}

// NewExpander creates an Expander over the given catalog.
func NewExpander(cat catalog.Provider, rng RandomSource) *Expander {
	return &Expander{catalog: cat, rng: rng}
}

// Expand flattens one reward reference into atomic grants. A RewardSet ref
// with amount N is expanded N times independently; each expansion re-draws
// its own random sub-option.
func (e *Expander) Expand(ctx context.Context, ref domain.RewardRef) (domain.GrantBatch, error) {
	var out domain.GrantBatch
	visiting := make(map[string]struct{})
	if err := e.expand(ctx, ref, visiting, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExpandAll flattens a sequence of references, preserving order.
func (e *Expander) ExpandAll(ctx context.Context, refs []domain.RewardRef) (domain.GrantBatch, error) {
	var out domain.GrantBatch
	for _, ref := range refs {
		visiting := make(map[string]struct{})
		if err := e.expand(ctx, ref, visiting, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *Expander) expand(ctx context.Context, ref domain.RewardRef, visiting map[string]struct{}, out *domain.GrantBatch) error {
	switch ref.Kind {
	case domain.RewardNone, "":
		// Explicit "nothing to give"; drop it.
		return nil

	case domain.RewardCurrency, domain.RewardItem, domain.RewardCharacter:
		*out = append(*out, domain.RewardGrant(ref))
		return nil

	case domain.RewardSetRef:
		if _, busy := visiting[ref.Key]; busy {
			return fmt.Errorf("%w: %s", domain.ErrCyclicRewardSet, ref.Key)
		}
		set, ok := e.catalog.LookupRewardSet(ref.Key)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrRewardSetNotFound, ref.Key)
		}

		times := ref.Amount
		if times <= 0 {
			times = 1
		}

		visiting[ref.Key] = struct{}{}
		defer delete(visiting, ref.Key)

		for i := 0; i < times; i++ {
			for _, static := range set.Statics {
				if err := e.expand(ctx, static, visiting, out); err != nil {
					return err
				}
			}
			if len(set.Randoms) > 0 {
				entry, err := rollWeightedEntries(set.Randoms, set.TotalWeight, e.rng)
				if err != nil {
					return fmt.Errorf("reward set %s: %w", ref.Key, err)
				}
				if err := e.expand(ctx, entry.Reward, visiting, out); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		logger.FromContext(ctx).Warn(LogMsgUnknownRewardKind, "kind", string(ref.Kind), "key", ref.Key)
		return nil
	}
}
