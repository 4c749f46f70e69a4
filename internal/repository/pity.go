package repository

import (
	"context"

	"github.com/lunarforge/reward-engine/internal/domain"
)

// Pity defines the interface for loading guaranteed-drop counters. Counters
// for an unknown (player, pool) pair are a zero PityState, not an error.
// Saving happens through Batch so counters persist atomically with the
// grants of the request that advanced them.
type Pity interface {
	GetCounters(ctx context.Context, playerID, poolKey string) (domain.PityState, error)
}
