package gacha

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/inventory"
	"github.com/lunarforge/reward-engine/internal/repository"
)

// MockStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetCounters(ctx context.Context, playerID, poolKey string) (domain.PityState, error) {
	args := m.Called(ctx, playerID, poolKey)
	return args.Get(0).(domain.PityState), args.Error(1)
}

func (m *MockStore) GetSnapshot(ctx context.Context, playerID string) (*domain.InventorySnapshot, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventorySnapshot), args.Error(1)
}

func (m *MockStore) GetMaxCapacity(ctx context.Context, playerID string) (int, error) {
	args := m.Called(ctx, playerID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) GetCurrencyBalance(ctx context.Context, playerID, currencyKey string) (int, error) {
	args := m.Called(ctx, playerID, currencyKey)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) BeginBatch(ctx context.Context, playerID string) (repository.Batch, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Batch), args.Error(1)
}

// MockBatch
type MockBatch struct {
	mock.Mock
}

func (m *MockBatch) SetStackAmount(ctx context.Context, itemKey string, amount int) error {
	args := m.Called(ctx, itemKey, amount)
	return args.Error(0)
}

func (m *MockBatch) InsertInstance(ctx context.Context, inst domain.ItemInstance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

func (m *MockBatch) DeleteInstance(ctx context.Context, instanceID uuid.UUID) error {
	args := m.Called(ctx, instanceID)
	return args.Error(0)
}

func (m *MockBatch) AdjustCurrency(ctx context.Context, currencyKey string, delta int) error {
	args := m.Called(ctx, currencyKey, delta)
	return args.Error(0)
}

func (m *MockBatch) GrantCharacter(ctx context.Context, characterKey string) error {
	args := m.Called(ctx, characterKey)
	return args.Error(0)
}

func (m *MockBatch) SaveCounters(ctx context.Context, poolKey string, state domain.PityState) error {
	args := m.Called(ctx, poolKey, state)
	return args.Error(0)
}

func (m *MockBatch) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBatch) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func emptySnapshot(playerID string) *domain.InventorySnapshot {
	return &domain.InventorySnapshot{
		PlayerID:  playerID,
		Stacks:    make(map[string]int),
		Instances: make(map[string][]domain.ItemInstance),
	}
}

func serviceFixture(cat *stubCatalog, store *MockStore, rng RandomSource) Service {
	snapshots := inventory.NewSnapshotCache(store, 16, time.Second)
	return NewService(cat, store, snapshots, rng)
}

func drawCatalog() *stubCatalog {
	cat := newStubCatalog()
	pool, campaign := pityFixture()
	cat.pools[pool.Key] = pool
	cat.campaigns[pool.Key] = campaign
	return cat
}

func TestDraw_Success(t *testing.T) {
	cat := drawCatalog()
	store := new(MockStore)
	batch := new(MockBatch)
	s := serviceFixture(cat, store, NewFixedRNG(0))

	ctx := context.Background()
	store.On("GetCounters", ctx, "player1", "banner").Return(domain.PityState{}, nil)
	store.On("GetSnapshot", ctx, "player1").Return(emptySnapshot("player1"), nil)
	store.On("GetMaxCapacity", ctx, "player1").Return(10, nil)
	store.On("BeginBatch", ctx, "player1").Return(batch, nil)
	batch.On("AdjustCurrency", ctx, "A", 1).Return(nil)
	batch.On("SaveCounters", ctx, "banner", domain.PityState{Normal: 1, Special: 1}).Return(nil)
	batch.On("Commit", ctx).Return(nil)
	batch.On("Rollback", ctx).Return(nil).Maybe()

	result, err := s.Draw(ctx, "player1", "banner", 1)

	assert.NoError(t, err)
	assert.Len(t, result.Draws, 1)
	assert.Equal(t, "A", result.Draws[0].Reward.Key)
	assert.Equal(t, domain.GrantBatch{{Kind: domain.RewardCurrency, Key: "A", Amount: 1}}, result.Grants)
	assert.Equal(t, 9, result.NormalRemaining)
	assert.Equal(t, 89, result.SpecialRemaining)
	store.AssertExpectations(t)
	batch.AssertExpectations(t)
}

func TestDraw_InvalidCount(t *testing.T) {
	s := serviceFixture(drawCatalog(), new(MockStore), NewFixedRNG(0))

	for _, count := range []int{0, -1, MaxDrawCount + 1} {
		result, err := s.Draw(context.Background(), "player1", "banner", count)
		assert.ErrorIs(t, err, domain.ErrInvalidDrawCount)
		assert.Nil(t, result)
	}
}

func TestDraw_PoolNotFound(t *testing.T) {
	s := serviceFixture(newStubCatalog(), new(MockStore), NewFixedRNG(0))

	result, err := s.Draw(context.Background(), "player1", "nope", 1)

	assert.ErrorIs(t, err, domain.ErrPoolNotFound)
	assert.Nil(t, result)
}

func TestDraw_CampaignNotFound(t *testing.T) {
	cat := newStubCatalog()
	pool, _ := pityFixture()
	cat.pools[pool.Key] = pool
	s := serviceFixture(cat, new(MockStore), NewFixedRNG(0))

	result, err := s.Draw(context.Background(), "player1", "banner", 1)

	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
	assert.Nil(t, result)
}

func TestDraw_CostDebitedPerRequest(t *testing.T) {
	cat := drawCatalog()
	cat.campaigns["banner"].CostCurrency = "gems"
	cat.campaigns["banner"].CostAmount = 160
	store := new(MockStore)
	batch := new(MockBatch)
	s := serviceFixture(cat, store, NewFixedRNG(0, 0))

	ctx := context.Background()
	store.On("GetCounters", ctx, "player1", "banner").Return(domain.PityState{}, nil)
	store.On("GetSnapshot", ctx, "player1").Return(emptySnapshot("player1"), nil)
	store.On("GetMaxCapacity", ctx, "player1").Return(10, nil)
	store.On("GetCurrencyBalance", ctx, "player1", "gems").Return(1000, nil)
	store.On("BeginBatch", ctx, "player1").Return(batch, nil)
	batch.On("AdjustCurrency", ctx, "gems", -320).Return(nil)
	batch.On("AdjustCurrency", ctx, "A", 1).Return(nil).Times(2)
	batch.On("SaveCounters", ctx, "banner", domain.PityState{Normal: 2, Special: 2}).Return(nil)
	batch.On("Commit", ctx).Return(nil)
	batch.On("Rollback", ctx).Return(nil).Maybe()

	result, err := s.Draw(ctx, "player1", "banner", 2)

	assert.NoError(t, err)
	assert.Len(t, result.Draws, 2)
	// The debit leads the batch so admission sees the full picture.
	assert.Equal(t, domain.RewardGrant{Kind: domain.RewardCurrency, Key: "gems", Amount: -320}, result.Grants[0])
	batch.AssertExpectations(t)
}

func TestDraw_InsufficientFundsRejectsWholeRequest(t *testing.T) {
	cat := drawCatalog()
	cat.campaigns["banner"].CostCurrency = "gems"
	cat.campaigns["banner"].CostAmount = 160
	store := new(MockStore)
	s := serviceFixture(cat, store, NewFixedRNG(0))

	ctx := context.Background()
	store.On("GetCounters", ctx, "player1", "banner").Return(domain.PityState{Normal: 4, Special: 12}, nil)
	store.On("GetSnapshot", ctx, "player1").Return(emptySnapshot("player1"), nil)
	store.On("GetMaxCapacity", ctx, "player1").Return(10, nil)
	store.On("GetCurrencyBalance", ctx, "player1", "gems").Return(100, nil)

	result, err := s.Draw(ctx, "player1", "banner", 1)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.ErrorIs(t, err, domain.ErrRewardRejected)
	assert.Nil(t, result)
	// Nothing persists: the advanced counters die with the rejected batch.
	store.AssertNotCalled(t, "BeginBatch", mock.Anything, mock.Anything)
}

func TestDraw_CapacityExceededRejectsWholeRequest(t *testing.T) {
	cat := newStubCatalog()
	pool := testPool("banner", domain.RewardEntry{
		Weight: 100,
		Reward: domain.RewardRef{Kind: domain.RewardItem, Key: "sword", Amount: 1},
	})
	cat.pools["banner"] = pool
	cat.campaigns["banner"] = &domain.CampaignConfig{PoolKey: "banner"}
	cat.items["sword"] = &domain.ItemMeta{Key: "sword", MaxStack: 1, OccupiesSlot: true}

	store := new(MockStore)
	s := serviceFixture(cat, store, NewFixedRNG(0))

	snapshot := emptySnapshot("player1")
	for i := 0; i < 5; i++ {
		snapshot.Instances["junk"] = append(snapshot.Instances["junk"],
			domain.ItemInstance{InstanceID: uuid.New(), ItemKey: "junk"})
	}

	ctx := context.Background()
	store.On("GetCounters", ctx, "player1", "banner").Return(domain.PityState{}, nil)
	store.On("GetSnapshot", ctx, "player1").Return(snapshot, nil)
	store.On("GetMaxCapacity", ctx, "player1").Return(5, nil)

	result, err := s.Draw(ctx, "player1", "banner", 1)

	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Nil(t, result)
	store.AssertNotCalled(t, "BeginBatch", mock.Anything, mock.Anything)
}

func TestDraw_CommitFailureSurfacesAndRollsBack(t *testing.T) {
	cat := drawCatalog()
	store := new(MockStore)
	batch := new(MockBatch)
	s := serviceFixture(cat, store, NewFixedRNG(0))

	ctx := context.Background()
	store.On("GetCounters", ctx, "player1", "banner").Return(domain.PityState{}, nil)
	store.On("GetSnapshot", ctx, "player1").Return(emptySnapshot("player1"), nil)
	store.On("GetMaxCapacity", ctx, "player1").Return(10, nil)
	store.On("BeginBatch", ctx, "player1").Return(batch, nil)
	batch.On("AdjustCurrency", ctx, "A", 1).Return(nil)
	batch.On("SaveCounters", ctx, "banner", mock.Anything).Return(nil)
	batch.On("Commit", ctx).Return(assert.AnError)
	batch.On("Rollback", ctx).Return(nil)

	result, err := s.Draw(ctx, "player1", "banner", 1)

	assert.ErrorIs(t, err, domain.ErrCommitFailed)
	assert.Nil(t, result)
	batch.AssertCalled(t, "Rollback", ctx)
}

func TestDraw_MultiDrawAdvancesPityAcrossRequest(t *testing.T) {
	cat := drawCatalog()
	store := new(MockStore)
	batch := new(MockBatch)
	// Twelve junk rolls would cross the normal cadence once; the scripted
	// source keeps every organic roll on A.
	values := make([]int, 0, 13)
	for i := 0; i < 13; i++ {
		values = append(values, 0)
	}
	s := serviceFixture(cat, store, NewFixedRNG(values...))

	ctx := context.Background()
	store.On("GetCounters", ctx, "player1", "banner").Return(domain.PityState{}, nil)
	store.On("GetSnapshot", ctx, "player1").Return(emptySnapshot("player1"), nil)
	store.On("GetMaxCapacity", ctx, "player1").Return(100, nil)
	store.On("BeginBatch", ctx, "player1").Return(batch, nil)
	batch.On("AdjustCurrency", ctx, mock.Anything, mock.Anything).Return(nil)
	batch.On("SaveCounters", ctx, "banner", domain.PityState{Normal: 2, Special: 12}).Return(nil)
	batch.On("Commit", ctx).Return(nil)
	batch.On("Rollback", ctx).Return(nil).Maybe()

	result, err := s.Draw(ctx, "player1", "banner", 12)

	assert.NoError(t, err)
	assert.Len(t, result.Draws, 12)

	pityDraws := 0
	for _, d := range result.Draws {
		if d.NormalPity {
			pityDraws++
		}
	}
	assert.Equal(t, 1, pityDraws, "exactly one guaranteed draw inside the window")
	batch.AssertExpectations(t)
}
