package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/logger"
	"github.com/lunarforge/reward-engine/internal/validation"
)

//go:embed schemas/catalog.schema.json
var schemaFS embed.FS

const catalogSchemaName = "schemas/catalog.schema.json"

// Config is the on-disk JSON shape of the reward catalog.
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`

	Pools      []PoolDef               `json:"pools"`
	Campaigns  []domain.CampaignConfig `json:"campaigns"`
	RewardSets []RewardSetDef          `json:"reward_sets"`
	Items      []domain.ItemMeta       `json:"items"`
}

// PoolDef is a single pool definition in the JSON.
type PoolDef struct {
	Key     string               `json:"key"`
	Entries []domain.RewardEntry `json:"entries"`
}

// RewardSetDef is a single composite reward definition in the JSON.
type RewardSetDef struct {
	Key     string               `json:"key"`
	Statics []domain.RewardRef   `json:"statics"`
	Randoms []domain.RewardEntry `json:"randoms,omitempty"`
}

// Load reads, schema-validates, and indexes a catalog JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	sv := validation.NewSchemaValidator(schemaFS)
	if err := sv.ValidateBytes(data, catalogSchemaName); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return Build(&config)
}

// Build indexes a parsed Config into an immutable Catalog: cumulative weights
// are precomputed, duplicate keys rejected, and dangling references surfaced
// at startup instead of at roll time.
func Build(config *Config) (*Catalog, error) {
	c := &Catalog{
		pools:      make(map[string]*domain.RewardPool, len(config.Pools)),
		campaigns:  make(map[string]*domain.CampaignConfig, len(config.Campaigns)),
		rewardSets: make(map[string]*domain.RewardSet, len(config.RewardSets)),
		items:      make(map[string]*domain.ItemMeta, len(config.Items)),
	}

	for i := range config.Items {
		meta := config.Items[i]
		if _, exists := c.items[meta.Key]; exists {
			return nil, fmt.Errorf("duplicate item key %q", meta.Key)
		}
		for gi := range meta.SubOptionGroups {
			group := &meta.SubOptionGroups[gi]
			group.TotalWeight = 0
			for oi := range group.Options {
				group.TotalWeight += group.Options[oi].Weight
				group.Options[oi].CumulWeight = group.TotalWeight
			}
			if group.TotalWeight <= 0 {
				return nil, fmt.Errorf("item %q: sub-option group %d has no weight", meta.Key, gi)
			}
		}
		stored := meta
		c.items[meta.Key] = &stored
	}

	for _, def := range config.Pools {
		if _, exists := c.pools[def.Key]; exists {
			return nil, fmt.Errorf("duplicate pool key %q", def.Key)
		}
		pool, err := buildPool(def)
		if err != nil {
			return nil, fmt.Errorf("pool %q: %w", def.Key, err)
		}
		c.pools[def.Key] = pool
	}

	for _, def := range config.RewardSets {
		if _, exists := c.rewardSets[def.Key]; exists {
			return nil, fmt.Errorf("duplicate reward set key %q", def.Key)
		}
		rs := &domain.RewardSet{Key: def.Key, Statics: def.Statics}
		rs.Randoms, rs.TotalWeight = accumulate(def.Randoms)
		if len(def.Randoms) > 0 && rs.TotalWeight <= 0 {
			return nil, fmt.Errorf("reward set %q: %w", def.Key, domain.ErrEmptyPool)
		}
		c.rewardSets[def.Key] = rs
	}

	for i := range config.Campaigns {
		cc := config.Campaigns[i]
		if _, exists := c.campaigns[cc.PoolKey]; exists {
			return nil, fmt.Errorf("duplicate campaign for pool %q", cc.PoolKey)
		}
		if _, ok := c.pools[cc.PoolKey]; !ok {
			return nil, fmt.Errorf("campaign references unknown pool %q", cc.PoolKey)
		}
		stored := cc
		c.campaigns[cc.PoolKey] = &stored
	}

	if err := c.checkReferences(); err != nil {
		return nil, err
	}

	return c, nil
}

func buildPool(def PoolDef) (*domain.RewardPool, error) {
	pool := &domain.RewardPool{Key: def.Key}
	pool.Entries, pool.TotalWeight = accumulate(def.Entries)
	if pool.TotalWeight <= 0 {
		return nil, domain.ErrEmptyPool
	}
	return pool, nil
}

// accumulate copies entries and fills in cumulative weights in declared order.
func accumulate(entries []domain.RewardEntry) ([]domain.RewardEntry, int) {
	out := make([]domain.RewardEntry, len(entries))
	total := 0
	for i, e := range entries {
		total += e.Weight
		e.CumulWeight = total
		out[i] = e
	}
	return out, total
}

// checkReferences verifies every reward ref points at a defined key. Broken
// item refs are warnings (the simulator skips unknown items); broken set
// refs are fatal because expansion cannot proceed without the definition.
func (c *Catalog) checkReferences() error {
	check := func(where string, refs []domain.RewardRef) error {
		for _, ref := range refs {
			switch ref.Kind {
			case domain.RewardSetRef:
				if _, ok := c.rewardSets[ref.Key]; !ok {
					return fmt.Errorf("%s references unknown reward set %q", where, ref.Key)
				}
			case domain.RewardItem:
				if _, ok := c.items[ref.Key]; !ok {
					logger.Warn("Catalog references unknown item", "where", where, "item", ref.Key)
				}
			}
		}
		return nil
	}

	for key, pool := range c.pools {
		refs := make([]domain.RewardRef, 0, len(pool.Entries))
		for _, e := range pool.Entries {
			refs = append(refs, e.Reward)
		}
		if err := check("pool "+key, refs); err != nil {
			return err
		}
	}
	for key, rs := range c.rewardSets {
		refs := make([]domain.RewardRef, 0, len(rs.Statics)+len(rs.Randoms))
		refs = append(refs, rs.Statics...)
		for _, e := range rs.Randoms {
			refs = append(refs, e.Reward)
		}
		if err := check("reward set "+key, refs); err != nil {
			return err
		}
	}
	return nil
}
