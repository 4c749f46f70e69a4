package catalog

import (
	"github.com/lunarforge/reward-engine/internal/domain"
)

// Provider is the read-only catalog surface the engine consumes. Lookups
// return ok=false for absent keys rather than an error; a missing key is a
// data problem for the caller to classify.
type Provider interface {
	LookupPool(poolKey string) (*domain.RewardPool, bool)
	LookupCampaign(poolKey string) (*domain.CampaignConfig, bool)
	LookupRewardSet(setKey string) (*domain.RewardSet, bool)
	LookupItemMeta(itemKey string) (*domain.ItemMeta, bool)
}

// Catalog is the immutable indexed form of the reward configuration, built
// once at startup and shared by all requests without locking.
type Catalog struct {
	pools      map[string]*domain.RewardPool
	campaigns  map[string]*domain.CampaignConfig
	rewardSets map[string]*domain.RewardSet
	items      map[string]*domain.ItemMeta
}

func (c *Catalog) LookupPool(poolKey string) (*domain.RewardPool, bool) {
	p, ok := c.pools[poolKey]
	return p, ok
}

func (c *Catalog) LookupCampaign(poolKey string) (*domain.CampaignConfig, bool) {
	cc, ok := c.campaigns[poolKey]
	return cc, ok
}

func (c *Catalog) LookupRewardSet(setKey string) (*domain.RewardSet, bool) {
	rs, ok := c.rewardSets[setKey]
	return rs, ok
}

func (c *Catalog) LookupItemMeta(itemKey string) (*domain.ItemMeta, bool) {
	m, ok := c.items[itemKey]
	return m, ok
}

// PoolKeys returns the set of configured pool keys, for diagnostics.
func (c *Catalog) PoolKeys() []string {
	keys := make([]string, 0, len(c.pools))
	for k := range c.pools {
		keys = append(keys, k)
	}
	return keys
}
