package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/lunarforge/reward-engine/internal/domain"
)

// Store is the full persistence surface the engine consumes.
type Store interface {
	Pity
	Inventory

	// BeginBatch opens an atomic mutation unit scoped to one player.
	BeginBatch(ctx context.Context, playerID string) (Batch, error)
}

// Batch collects row mutations and applies them as one all-or-nothing unit.
// Mutations queued on a batch have no effect until Commit; a failed Commit
// leaves no partial state behind.
type Batch interface {
	// SetStackAmount writes the absolute amount for a stackable item row.
	// Amount 0 deletes the row rather than storing a zero.
	SetStackAmount(ctx context.Context, itemKey string, amount int) error

	// InsertInstance adds one non-stackable item row with its sub-options.
	InsertInstance(ctx context.Context, inst domain.ItemInstance) error

	// DeleteInstance removes a non-stackable item row along with any
	// equip-state rows referencing it.
	DeleteInstance(ctx context.Context, instanceID uuid.UUID) error

	// AdjustCurrency applies a signed delta to a currency balance.
	AdjustCurrency(ctx context.Context, currencyKey string, delta int) error

	// GrantCharacter unlocks a player character.
	GrantCharacter(ctx context.Context, characterKey string) error

	// SaveCounters persists the pity counters for one pool as part of this
	// batch.
	SaveCounters(ctx context.Context, poolKey string, state domain.PityState) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
