package gacha

// ============================================================================
// Pity Mechanics
// ============================================================================

// NormalPityCadence is the fixed draw count that guarantees a normal-tier
// pickup. It is a policy constant of the normal tier, independent of the
// configured special-pity ceiling.
const NormalPityCadence = 10

// MaxDrawCount caps a single multi-draw request.
const MaxDrawCount = 100

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrContextFailedToLoadCounters = "failed to load pity counters"
	ErrContextFailedToGetSnapshot  = "failed to get inventory snapshot"
	ErrContextFailedToGetCapacity  = "failed to get max capacity"
	ErrContextCommitFailed         = "failed to commit reward batch"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPityPoolEmpty     = "Pity threshold has no matching entries, degrading to normal roll"
	LogMsgDrawResolved      = "Draw resolved"
	LogMsgBatchRejected     = "Reward batch rejected, pity progress discarded"
	LogMsgUnknownRewardKind = "Unknown reward kind in expansion"
)

// Log field keys for structured logging
const (
	LogFieldPool        = "pool"
	LogFieldPlayer      = "player_id"
	LogFieldPickupGroup = "pickup_group"
	LogFieldDrawCount   = "draw_count"
	LogFieldError       = "error"
)
