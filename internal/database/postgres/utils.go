package postgres

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lunarforge/reward-engine/internal/domain"
)

// parsePlayerUUID parses a player ID string to uuid.UUID with consistent error message.
func parsePlayerUUID(playerID string) (uuid.UUID, error) {
	u, err := uuid.Parse(playerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid player id: %v", domain.ErrPlayerNotFound, err)
	}
	return u, nil
}
