package gacha

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lunarforge/reward-engine/internal/domain"
)

// stubCatalog is an in-memory catalog.Provider for tests.
type stubCatalog struct {
	pools      map[string]*domain.RewardPool
	campaigns  map[string]*domain.CampaignConfig
	rewardSets map[string]*domain.RewardSet
	items      map[string]*domain.ItemMeta
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		pools:      make(map[string]*domain.RewardPool),
		campaigns:  make(map[string]*domain.CampaignConfig),
		rewardSets: make(map[string]*domain.RewardSet),
		items:      make(map[string]*domain.ItemMeta),
	}
}

func (c *stubCatalog) LookupPool(key string) (*domain.RewardPool, bool) {
	p, ok := c.pools[key]
	return p, ok
}

func (c *stubCatalog) LookupCampaign(poolKey string) (*domain.CampaignConfig, bool) {
	cc, ok := c.campaigns[poolKey]
	return cc, ok
}

func (c *stubCatalog) LookupRewardSet(key string) (*domain.RewardSet, bool) {
	rs, ok := c.rewardSets[key]
	return rs, ok
}

func (c *stubCatalog) LookupItemMeta(key string) (*domain.ItemMeta, bool) {
	m, ok := c.items[key]
	return m, ok
}

// testRewardSet accumulates random-entry weights the way the loader would.
func testRewardSet(key string, statics []domain.RewardRef, randoms ...domain.RewardEntry) *domain.RewardSet {
	rs := &domain.RewardSet{Key: key, Statics: statics}
	total := 0
	for _, e := range randoms {
		total += e.Weight
		e.CumulWeight = total
		rs.Randoms = append(rs.Randoms, e)
	}
	rs.TotalWeight = total
	return rs
}

func currencyRef(key string, amount int) domain.RewardRef {
	return domain.RewardRef{Kind: domain.RewardCurrency, Key: key, Amount: amount}
}

func TestExpand_AtomicKindsPassThrough(t *testing.T) {
	e := NewExpander(newStubCatalog(), NewFixedRNG())

	grants, err := e.ExpandAll(context.Background(), []domain.RewardRef{
		currencyRef("gold", 100),
		{Kind: domain.RewardItem, Key: "potion", Amount: 3},
		{Kind: domain.RewardCharacter, Key: "hero", Amount: 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.GrantBatch{
		{Kind: domain.RewardCurrency, Key: "gold", Amount: 100},
		{Kind: domain.RewardItem, Key: "potion", Amount: 3},
		{Kind: domain.RewardCharacter, Key: "hero", Amount: 1},
	}, grants)
}

func TestExpand_NoneIsDropped(t *testing.T) {
	e := NewExpander(newStubCatalog(), NewFixedRNG())

	grants, err := e.ExpandAll(context.Background(), []domain.RewardRef{
		{Kind: domain.RewardNone},
		currencyRef("gold", 10),
	})

	assert.NoError(t, err)
	assert.Len(t, grants, 1)
	assert.Equal(t, "gold", grants[0].Key)
}

func TestExpand_SetYieldsStaticsAndOneRandom(t *testing.T) {
	cat := newStubCatalog()
	cat.rewardSets["cache"] = testRewardSet("cache",
		[]domain.RewardRef{currencyRef("gold", 500), {Kind: domain.RewardItem, Key: "potion", Amount: 2}},
		domain.RewardEntry{Weight: 70, Reward: domain.RewardRef{Kind: domain.RewardItem, Key: "sword", Amount: 1}},
		domain.RewardEntry{Weight: 30, Reward: domain.RewardRef{Kind: domain.RewardItem, Key: "shield", Amount: 1}},
	)
	e := NewExpander(cat, NewFixedRNG(0))

	grants, err := e.Expand(context.Background(), domain.RewardRef{Kind: domain.RewardSetRef, Key: "cache", Amount: 1})

	assert.NoError(t, err)
	assert.Equal(t, domain.GrantBatch{
		{Kind: domain.RewardCurrency, Key: "gold", Amount: 500},
		{Kind: domain.RewardItem, Key: "potion", Amount: 2},
		{Kind: domain.RewardItem, Key: "sword", Amount: 1},
	}, grants)
}

func TestExpand_MultiplicityRedrawsEachTime(t *testing.T) {
	cat := newStubCatalog()
	cat.rewardSets["cache"] = testRewardSet("cache",
		[]domain.RewardRef{currencyRef("gold", 100)},
		domain.RewardEntry{Weight: 50, Reward: domain.RewardRef{Kind: domain.RewardItem, Key: "sword", Amount: 1}},
		domain.RewardEntry{Weight: 50, Reward: domain.RewardRef{Kind: domain.RewardItem, Key: "shield", Amount: 1}},
	)
	// Three expansions, scripted to sword, shield, sword.
	e := NewExpander(cat, NewFixedRNG(0, 99, 0))

	grants, err := e.Expand(context.Background(), domain.RewardRef{Kind: domain.RewardSetRef, Key: "cache", Amount: 3})

	assert.NoError(t, err)
	assert.Equal(t, domain.GrantBatch{
		{Kind: domain.RewardCurrency, Key: "gold", Amount: 100},
		{Kind: domain.RewardItem, Key: "sword", Amount: 1},
		{Kind: domain.RewardCurrency, Key: "gold", Amount: 100},
		{Kind: domain.RewardItem, Key: "shield", Amount: 1},
		{Kind: domain.RewardCurrency, Key: "gold", Amount: 100},
		{Kind: domain.RewardItem, Key: "sword", Amount: 1},
	}, grants)
}

func TestExpand_NestedSets(t *testing.T) {
	cat := newStubCatalog()
	cat.rewardSets["outer"] = testRewardSet("outer",
		[]domain.RewardRef{{Kind: domain.RewardSetRef, Key: "inner", Amount: 1}})
	cat.rewardSets["inner"] = testRewardSet("inner",
		[]domain.RewardRef{currencyRef("gems", 40)})
	e := NewExpander(cat, NewFixedRNG())

	grants, err := e.Expand(context.Background(), domain.RewardRef{Kind: domain.RewardSetRef, Key: "outer", Amount: 1})

	assert.NoError(t, err)
	assert.Equal(t, domain.GrantBatch{{Kind: domain.RewardCurrency, Key: "gems", Amount: 40}}, grants)
}

func TestExpand_CycleDetected(t *testing.T) {
	cat := newStubCatalog()
	cat.rewardSets["a"] = testRewardSet("a",
		[]domain.RewardRef{{Kind: domain.RewardSetRef, Key: "b", Amount: 1}})
	cat.rewardSets["b"] = testRewardSet("b",
		[]domain.RewardRef{{Kind: domain.RewardSetRef, Key: "a", Amount: 1}})
	e := NewExpander(cat, NewFixedRNG())

	_, err := e.Expand(context.Background(), domain.RewardRef{Kind: domain.RewardSetRef, Key: "a", Amount: 1})

	assert.ErrorIs(t, err, domain.ErrCyclicRewardSet)
}

func TestExpand_RepeatedSiblingReferenceIsNotACycle(t *testing.T) {
	cat := newStubCatalog()
	cat.rewardSets["parent"] = testRewardSet("parent",
		[]domain.RewardRef{
			{Kind: domain.RewardSetRef, Key: "child", Amount: 1},
			{Kind: domain.RewardSetRef, Key: "child", Amount: 1},
		})
	cat.rewardSets["child"] = testRewardSet("child",
		[]domain.RewardRef{currencyRef("gold", 5)})
	e := NewExpander(cat, NewFixedRNG())

	grants, err := e.Expand(context.Background(), domain.RewardRef{Kind: domain.RewardSetRef, Key: "parent", Amount: 1})

	assert.NoError(t, err)
	assert.Len(t, grants, 2)
}

func TestExpand_UnknownSet(t *testing.T) {
	e := NewExpander(newStubCatalog(), NewFixedRNG())

	_, err := e.Expand(context.Background(), domain.RewardRef{Kind: domain.RewardSetRef, Key: "missing", Amount: 1})

	assert.ErrorIs(t, err, domain.ErrRewardSetNotFound)
}

func TestExpand_DeterministicWithSeededSource(t *testing.T) {
	build := func() *Expander {
		cat := newStubCatalog()
		cat.rewardSets["cache"] = testRewardSet("cache",
			nil,
			domain.RewardEntry{Weight: 50, Reward: currencyRef("gold", 1)},
			domain.RewardEntry{Weight: 50, Reward: currencyRef("gems", 1)},
		)
		return NewExpander(cat, NewSeededRNG(99))
	}

	ref := domain.RewardRef{Kind: domain.RewardSetRef, Key: "cache", Amount: 20}
	first, err := build().Expand(context.Background(), ref)
	assert.NoError(t, err)
	second, err := build().Expand(context.Background(), ref)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}
