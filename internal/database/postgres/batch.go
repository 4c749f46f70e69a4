package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lunarforge/reward-engine/internal/domain"
)

// batch implements repository.Batch over one pgx transaction. Every mutation
// executes inside the transaction immediately; nothing is visible to other
// connections until Commit.
type batch struct {
	tx       pgx.Tx
	playerID uuid.UUID
}

// SetStackAmount writes the absolute amount for a stackable row. Amount 0
// deletes the row rather than storing a zero.
func (b *batch) SetStackAmount(ctx context.Context, itemKey string, amount int) error {
	if amount <= 0 {
		_, err := b.tx.Exec(ctx,
			`DELETE FROM item_stacks WHERE player_id = $1 AND item_key = $2`,
			b.playerID, itemKey)
		if err != nil {
			return fmt.Errorf("failed to delete item stack %s: %w", itemKey, err)
		}
		return nil
	}

	_, err := b.tx.Exec(ctx,
		`INSERT INTO item_stacks (player_id, item_key, amount) VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, item_key) DO UPDATE SET amount = EXCLUDED.amount`,
		b.playerID, itemKey, amount)
	if err != nil {
		return fmt.Errorf("failed to upsert item stack %s: %w", itemKey, err)
	}
	return nil
}

func (b *batch) InsertInstance(ctx context.Context, inst domain.ItemInstance) error {
	_, err := b.tx.Exec(ctx,
		`INSERT INTO item_instances (instance_id, player_id, item_key) VALUES ($1, $2, $3)`,
		inst.InstanceID, b.playerID, inst.ItemKey)
	if err != nil {
		return fmt.Errorf("failed to insert item instance %s: %w", inst.ItemKey, err)
	}

	for slot, opt := range inst.Options {
		_, err := b.tx.Exec(ctx,
			`INSERT INTO item_instance_options (instance_id, slot, effect, option_value) VALUES ($1, $2, $3, $4)`,
			inst.InstanceID, slot, opt.Effect, opt.Value)
		if err != nil {
			return fmt.Errorf("failed to insert item option %s: %w", opt.Effect, err)
		}
	}
	return nil
}

// DeleteInstance removes one non-stackable row. Options cascade; equip-state
// rows referencing the instance are removed explicitly.
func (b *batch) DeleteInstance(ctx context.Context, instanceID uuid.UUID) error {
	_, err := b.tx.Exec(ctx,
		`DELETE FROM equip_state WHERE player_id = $1 AND instance_id = $2`,
		b.playerID, instanceID)
	if err != nil {
		return fmt.Errorf("failed to delete equip state: %w", err)
	}

	_, err = b.tx.Exec(ctx,
		`DELETE FROM item_instances WHERE instance_id = $1 AND player_id = $2`,
		instanceID, b.playerID)
	if err != nil {
		return fmt.Errorf("failed to delete item instance: %w", err)
	}
	return nil
}

func (b *batch) AdjustCurrency(ctx context.Context, currencyKey string, delta int) error {
	_, err := b.tx.Exec(ctx,
		`INSERT INTO currency_balances (player_id, currency_key, balance) VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, currency_key) DO UPDATE SET balance = currency_balances.balance + $3`,
		b.playerID, currencyKey, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust currency %s: %w", currencyKey, err)
	}
	return nil
}

func (b *batch) GrantCharacter(ctx context.Context, characterKey string) error {
	_, err := b.tx.Exec(ctx,
		`INSERT INTO player_characters (player_id, character_key) VALUES ($1, $2)
		 ON CONFLICT (player_id, character_key) DO NOTHING`,
		b.playerID, characterKey)
	if err != nil {
		return fmt.Errorf("failed to grant character %s: %w", characterKey, err)
	}
	return nil
}

func (b *batch) SaveCounters(ctx context.Context, poolKey string, state domain.PityState) error {
	_, err := b.tx.Exec(ctx,
		`INSERT INTO gacha_counters (player_id, pool_key, normal_counter, special_counter, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (player_id, pool_key)
		 DO UPDATE SET normal_counter = EXCLUDED.normal_counter,
		               special_counter = EXCLUDED.special_counter,
		               updated_at = now()`,
		b.playerID, poolKey, state.Normal, state.Special)
	if err != nil {
		return fmt.Errorf("failed to save pity counters: %w", err)
	}
	return nil
}

func (b *batch) Commit(ctx context.Context) error {
	return b.tx.Commit(ctx)
}

func (b *batch) Rollback(ctx context.Context) error {
	return b.tx.Rollback(ctx)
}
