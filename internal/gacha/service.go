package gacha

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lunarforge/reward-engine/internal/catalog"
	"github.com/lunarforge/reward-engine/internal/concurrency"
	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/inventory"
	"github.com/lunarforge/reward-engine/internal/logger"
	"github.com/lunarforge/reward-engine/internal/metrics"
	"github.com/lunarforge/reward-engine/internal/repository"
)

// Service defines the interface for reward resolution
type Service interface {
	Draw(ctx context.Context, playerID, poolKey string, count int) (*DrawResult, error)
}

// DrawResult is the resolved outcome of one multi-draw request.
type DrawResult struct {
	Draws  []DrawOutcome     `json:"draws"`
	Grants domain.GrantBatch `json:"grants"`

	// Remaining draws until each pity ceiling, for client display.
	NormalRemaining  int `json:"normal_remaining"`
	SpecialRemaining int `json:"special_remaining"`
}

type service struct {
	catalog   catalog.Provider
	store     repository.Store
	snapshots *inventory.SnapshotCache
	sim       *inventory.Simulator
	committer *inventory.Committer
	expander  *Expander
	locks     *concurrency.LockManager
	rng       RandomSource
}

// NewService creates a new reward resolution service
func NewService(cat catalog.Provider, store repository.Store, snapshots *inventory.SnapshotCache, rng RandomSource) Service {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &service{
		catalog:   cat,
		store:     store,
		snapshots: snapshots,
		sim:       inventory.NewSimulator(cat),
		committer: inventory.NewCommitter(cat, rng),
		expander:  NewExpander(cat, rng),
		locks:     concurrency.NewLockManager(),
		rng:       rng,
	}
}

// Draw resolves count draws against the named pool for one player. The whole
// request is serialized per player, simulated before any persistence call,
// and committed as a single atomic unit together with the advanced pity
// counters. A rejected batch persists nothing: from durable state's point of
// view the draws never happened, so pity progress is discarded with them.
func (s *service) Draw(ctx context.Context, playerID, poolKey string, count int) (*DrawResult, error) {
	if count <= 0 || count > MaxDrawCount {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidDrawCount, count)
	}

	pool, ok := s.catalog.LookupPool(poolKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPoolNotFound, poolKey)
	}
	campaign, ok := s.catalog.LookupCampaign(poolKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, poolKey)
	}

	var result *DrawResult
	err := s.locks.WithLock(playerID, func() error {
		var err error
		result, err = s.drawLocked(ctx, playerID, pool, campaign, count)
		return err
	})
	return result, err
}

func (s *service) drawLocked(ctx context.Context, playerID string, pool *domain.RewardPool, campaign *domain.CampaignConfig, count int) (*DrawResult, error) {
	log := logger.ForPlayer(ctx, playerID)

	state, err := s.store.GetCounters(ctx, playerID, pool.Key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToLoadCounters, err)
	}

	outcomes := make([]DrawOutcome, 0, count)
	refs := make([]domain.RewardRef, 0, count)
	for i := 0; i < count; i++ {
		outcome, err := drawOnce(ctx, pool, campaign, &state, s.rng)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
		refs = append(refs, outcome.Reward)
		metrics.DrawsResolved.WithLabelValues(pool.Key).Inc()
	}

	grants, err := s.expander.ExpandAll(ctx, refs)
	if err != nil {
		return nil, err
	}

	// Paid draws debit the configured currency up front; the debit rides in
	// the same batch so admission and commit treat it like any other grant.
	if campaign.CostAmount > 0 && campaign.CostCurrency != "" {
		cost := domain.RewardGrant{
			Kind:   domain.RewardCurrency,
			Key:    campaign.CostCurrency,
			Amount: -campaign.CostAmount * count,
		}
		grants = append(domain.GrantBatch{cost}, grants...)
	}

	snapshot, err := s.snapshots.GetSnapshot(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetSnapshot, err)
	}
	capacity, err := s.snapshots.GetMaxCapacity(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetCapacity, err)
	}

	adjusted, err := s.sim.Simulate(ctx, grants, snapshot, nil, capacity, true, s.admitGrant(playerID))
	if err != nil {
		reason := metrics.RejectReasonAdmit
		if errors.Is(err, domain.ErrCapacityExceeded) {
			reason = metrics.RejectReasonCapacity
		}
		metrics.AdmissionRejected.WithLabelValues(pool.Key, reason).Inc()
		log.Warn(LogMsgBatchRejected, LogFieldPool, pool.Key, LogFieldError, err)
		return nil, err
	}

	// Everything before this point is pure simulation; an abandoned request
	// has no side effects. From here the unit runs to completion or fails
	// whole.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, playerID, pool.Key, snapshot, adjusted, state); err != nil {
		return nil, err
	}

	for _, g := range adjusted {
		metrics.GrantsCommitted.WithLabelValues(string(g.Kind)).Inc()
	}

	log.Info(LogMsgDrawResolved,
		LogFieldPool, pool.Key,
		LogFieldDrawCount, count,
		"grants", len(adjusted),
		"pity_normal", state.Normal,
		"pity_special", state.Special,
	)

	return &DrawResult{
		Draws:            outcomes,
		Grants:           adjusted,
		NormalRemaining:  NormalPityCadence - state.Normal,
		SpecialRemaining: campaign.SpecialTryCount - state.Special,
	}, nil
}

// admitGrant is the per-grant admissibility check: currency debits must not
// take a balance below zero. It runs during simulation regardless of
// capacity enforcement.
func (s *service) admitGrant(playerID string) inventory.AdmitFunc {
	return func(ctx context.Context, grant domain.RewardGrant) error {
		if grant.Kind != domain.RewardCurrency || grant.Amount >= 0 {
			return nil
		}
		balance, err := s.snapshots.GetCurrencyBalance(ctx, playerID, grant.Key)
		if err != nil {
			return err
		}
		if balance+grant.Amount < 0 {
			return fmt.Errorf("%w: %s balance %d, need %d", domain.ErrInsufficientFunds, grant.Key, balance, -grant.Amount)
		}
		return nil
	}
}

// commit applies the approved batch and the advanced pity counters as one
// atomic persistence unit.
func (s *service) commit(ctx context.Context, playerID, poolKey string, snapshot *domain.InventorySnapshot, grants domain.GrantBatch, state domain.PityState) error {
	start := time.Now()

	batch, err := s.store.BeginBatch(ctx, playerID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextCommitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = batch.Rollback(ctx)
		}
	}()

	if err := s.committer.Apply(ctx, batch, snapshot, grants, nil); err != nil {
		metrics.CommitFailures.Inc()
		return fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}
	if err := batch.SaveCounters(ctx, poolKey, state); err != nil {
		metrics.CommitFailures.Inc()
		return fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}
	if err := batch.Commit(ctx); err != nil {
		metrics.CommitFailures.Inc()
		return fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}
	committed = true

	metrics.CommitDuration.Observe(time.Since(start).Seconds())
	s.snapshots.Invalidate(playerID)
	return nil
}
