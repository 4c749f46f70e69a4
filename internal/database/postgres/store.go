package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/repository"
)

// Store implements repository.Store on top of a pgx connection pool.
type Store struct {
	db *pgxpool.Pool

	// defaultMaxCapacity applies to players without a stored override.
	defaultMaxCapacity int
}

// NewStore creates a Store over an existing pool.
func NewStore(db *pgxpool.Pool, defaultMaxCapacity int) *Store {
	return &Store{db: db, defaultMaxCapacity: defaultMaxCapacity}
}

// GetCounters loads the pity counters for one (player, pool) pair. Unknown
// pairs return a zero state.
func (s *Store) GetCounters(ctx context.Context, playerID, poolKey string) (domain.PityState, error) {
	pid, err := parsePlayerUUID(playerID)
	if err != nil {
		return domain.PityState{}, err
	}

	var state domain.PityState
	err = s.db.QueryRow(ctx,
		`SELECT normal_counter, special_counter FROM gacha_counters WHERE player_id = $1 AND pool_key = $2`,
		pid, poolKey,
	).Scan(&state.Normal, &state.Special)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PityState{}, nil
	}
	if err != nil {
		return domain.PityState{}, fmt.Errorf("failed to load pity counters: %w", err)
	}
	return state, nil
}

// GetSnapshot builds the player's inventory snapshot: stack rows plus
// non-stackable instances with their sub-options.
func (s *Store) GetSnapshot(ctx context.Context, playerID string) (*domain.InventorySnapshot, error) {
	pid, err := parsePlayerUUID(playerID)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.InventorySnapshot{
		PlayerID:  playerID,
		Stacks:    make(map[string]int),
		Instances: make(map[string][]domain.ItemInstance),
	}

	rows, err := s.db.Query(ctx,
		`SELECT item_key, amount FROM item_stacks WHERE player_id = $1`, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to query item stacks: %w", err)
	}
	for rows.Next() {
		var key string
		var amount int
		if err := rows.Scan(&key, &amount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item stack: %w", err)
		}
		snapshot.Stacks[key] = amount
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read item stacks: %w", err)
	}

	instRows, err := s.db.Query(ctx,
		`SELECT i.instance_id, i.item_key, o.effect, o.option_value
		 FROM item_instances i
		 LEFT JOIN item_instance_options o ON o.instance_id = i.instance_id
		 WHERE i.player_id = $1
		 ORDER BY i.created_at, i.instance_id, o.slot`, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to query item instances: %w", err)
	}
	defer instRows.Close()

	byID := make(map[string]*domain.ItemInstance)
	var order []string
	for instRows.Next() {
		var inst domain.ItemInstance
		var effect *string
		var value *int
		if err := instRows.Scan(&inst.InstanceID, &inst.ItemKey, &effect, &value); err != nil {
			return nil, fmt.Errorf("failed to scan item instance: %w", err)
		}

		id := inst.InstanceID.String()
		existing, ok := byID[id]
		if !ok {
			stored := inst
			byID[id] = &stored
			order = append(order, id)
			existing = &stored
		}
		if effect != nil && value != nil {
			existing.Options = append(existing.Options, domain.ItemOption{Effect: *effect, Value: *value})
		}
	}
	if err := instRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read item instances: %w", err)
	}

	for _, id := range order {
		inst := byID[id]
		snapshot.Instances[inst.ItemKey] = append(snapshot.Instances[inst.ItemKey], *inst)
	}

	return snapshot, nil
}

// GetMaxCapacity returns the player's inventory cap, falling back to the
// configured default when the player has no stored override.
func (s *Store) GetMaxCapacity(ctx context.Context, playerID string) (int, error) {
	pid, err := parsePlayerUUID(playerID)
	if err != nil {
		return 0, err
	}

	var capacity int
	err = s.db.QueryRow(ctx,
		`SELECT max_capacity FROM players WHERE player_id = $1`, pid,
	).Scan(&capacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.defaultMaxCapacity, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load max capacity: %w", err)
	}
	return capacity, nil
}

// GetCurrencyBalance returns the player's balance for one currency key;
// unknown keys are a zero balance.
func (s *Store) GetCurrencyBalance(ctx context.Context, playerID, currencyKey string) (int, error) {
	pid, err := parsePlayerUUID(playerID)
	if err != nil {
		return 0, err
	}

	var balance int
	err = s.db.QueryRow(ctx,
		`SELECT balance FROM currency_balances WHERE player_id = $1 AND currency_key = $2`,
		pid, currencyKey,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load currency balance: %w", err)
	}
	return balance, nil
}

// BeginBatch opens a pgx transaction scoped to one player.
func (s *Store) BeginBatch(ctx context.Context, playerID string) (repository.Batch, error) {
	pid, err := parsePlayerUUID(playerID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &batch{tx: tx, playerID: pid}, nil
}
