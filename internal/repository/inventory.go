package repository

import (
	"context"

	"github.com/lunarforge/reward-engine/internal/domain"
)

// Inventory defines the read-only interface for player inventory state.
type Inventory interface {
	GetSnapshot(ctx context.Context, playerID string) (*domain.InventorySnapshot, error)
	GetMaxCapacity(ctx context.Context, playerID string) (int, error)
	GetCurrencyBalance(ctx context.Context, playerID, currencyKey string) (int, error)
}
