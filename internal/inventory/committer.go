package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/lunarforge/reward-engine/internal/catalog"
	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/logger"
	"github.com/lunarforge/reward-engine/internal/repository"
)

// RandomSource is the randomness needed for equipment sub-option rolls.
type RandomSource interface {
	IntN(n int) int
}

// Committer translates an approved grant batch into row mutations on a
// repository.Batch. It queues mutations only; the caller owns Commit and
// Rollback, so pity counters can join the same atomic unit.
type Committer struct {
	catalog catalog.Provider
	rng     RandomSource
}

// NewCommitter creates a Committer over the given catalog and random source.
func NewCommitter(cat catalog.Provider, rng RandomSource) *Committer {
	return &Committer{catalog: cat, rng: rng}
}

// Apply queues every grant in the batch. fixedOptions, when non-nil, maps an
// item key to preset sub-options used verbatim instead of rolling (enchant
// and craft outcomes are deterministic); no randomness is consumed for those
// items.
func (c *Committer) Apply(ctx context.Context, b repository.Batch, snapshot *domain.InventorySnapshot, grants domain.GrantBatch, fixedOptions map[string][]domain.ItemOption) error {
	log := logger.FromContext(ctx)

	// Running stack amounts so repeated grants to one key within the batch
	// observe each other. After merging there is at most one grant per
	// stackable key, but Apply does not rely on that.
	stacks := make(map[string]int)

	for _, grant := range grants {
		switch grant.Kind {
		case domain.RewardNone, "":
			continue

		case domain.RewardCurrency:
			if err := b.AdjustCurrency(ctx, grant.Key, grant.Amount); err != nil {
				return err
			}

		case domain.RewardCharacter:
			if err := b.GrantCharacter(ctx, grant.Key); err != nil {
				return err
			}

		case domain.RewardItem:
			meta, ok := c.catalog.LookupItemMeta(grant.Key)
			if !ok {
				log.Warn(LogMsgUnknownItem, LogFieldItem, grant.Key)
				continue
			}
			if err := c.applyItem(ctx, b, snapshot, meta, grant, stacks, fixedOptions); err != nil {
				return err
			}

		default:
			return fmt.Errorf("cannot commit reward kind %q", grant.Kind)
		}
	}
	return nil
}

func (c *Committer) applyItem(ctx context.Context, b repository.Batch, snapshot *domain.InventorySnapshot, meta *domain.ItemMeta, grant domain.RewardGrant, stacks map[string]int, fixedOptions map[string][]domain.ItemOption) error {
	if meta.Stackable() {
		held, tracked := stacks[grant.Key]
		if !tracked {
			held = snapshot.Amount(grant.Key)
		}
		amount := clamp(held+grant.Amount, 0, meta.MaxStack)
		stacks[grant.Key] = amount
		return b.SetStackAmount(ctx, grant.Key, amount)
	}

	if grant.Amount > 0 {
		for i := 0; i < grant.Amount; i++ {
			inst := domain.ItemInstance{
				InstanceID: uuid.New(),
				ItemKey:    grant.Key,
			}
			if fixed, ok := fixedOptions[grant.Key]; ok {
				inst.Options = fixed
			} else {
				inst.Options = c.rollOptions(meta)
			}
			if err := b.InsertInstance(ctx, inst); err != nil {
				return err
			}
		}
		return nil
	}

	if grant.Amount < 0 {
		instances := snapshot.Instances[grant.Key]
		remove := -grant.Amount
		if remove > len(instances) {
			remove = len(instances)
		}
		for i := 0; i < remove; i++ {
			if err := b.DeleteInstance(ctx, instances[i].InstanceID); err != nil {
				return err
			}
		}
	}
	return nil
}

// rollOptions draws one sub-option per group by cumulative-weight selection,
// the same algorithm pools use.
func (c *Committer) rollOptions(meta *domain.ItemMeta) []domain.ItemOption {
	if !meta.Equip || len(meta.SubOptionGroups) == 0 {
		return nil
	}

	options := make([]domain.ItemOption, 0, len(meta.SubOptionGroups))
	for _, group := range meta.SubOptionGroups {
		draw := c.rng.IntN(group.TotalWeight) + 1
		idx := sort.Search(len(group.Options), func(i int) bool {
			return group.Options[i].CumulWeight >= draw
		})
		if idx >= len(group.Options) {
			continue
		}
		opt := group.Options[idx]
		options = append(options, domain.ItemOption{Effect: opt.Effect, Value: opt.Value})
	}
	return options
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
