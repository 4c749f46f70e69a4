package inventory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/repository"
)

// SnapshotCache fronts repository.Inventory with a short-lived LRU so that
// read-only surfaces (inventory views, capacity probes) do not hit the
// database per request. Draw resolution bypasses staleness by invalidating
// the player's entry on every commit.
type SnapshotCache struct {
	repo repository.Inventory
	lru  *expirable.LRU[string, *domain.InventorySnapshot]
}

// NewSnapshotCache creates a cache with the given size and TTL.
func NewSnapshotCache(repo repository.Inventory, size int, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		repo: repo,
		lru:  expirable.NewLRU[string, *domain.InventorySnapshot](size, nil, ttl),
	}
}

// GetSnapshot returns the cached snapshot or loads it from the repository.
func (c *SnapshotCache) GetSnapshot(ctx context.Context, playerID string) (*domain.InventorySnapshot, error) {
	if snap, ok := c.lru.Get(playerID); ok {
		return snap, nil
	}

	snap, err := c.repo.GetSnapshot(ctx, playerID)
	if err != nil {
		return nil, err
	}
	c.lru.Add(playerID, snap)
	return snap, nil
}

// GetMaxCapacity passes through; capacity changes too rarely to justify
// cache invalidation plumbing.
func (c *SnapshotCache) GetMaxCapacity(ctx context.Context, playerID string) (int, error) {
	return c.repo.GetMaxCapacity(ctx, playerID)
}

// GetCurrencyBalance passes through; balances must always be read fresh.
func (c *SnapshotCache) GetCurrencyBalance(ctx context.Context, playerID, currencyKey string) (int, error) {
	return c.repo.GetCurrencyBalance(ctx, playerID, currencyKey)
}

// Invalidate drops a player's snapshot; called after every committed batch.
func (c *SnapshotCache) Invalidate(playerID string) {
	c.lru.Remove(playerID)
}
