package inventory

// ============================================================================
// Defaults
// ============================================================================

// DefaultSnapshotCacheSize is the maximum number of cached player snapshots.
const DefaultSnapshotCacheSize = 512

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgUnknownItem   = "Item not found in catalog, grant skipped"
	LogMsgInventoryFull = "Inventory capacity exceeded during simulation"
)

// Log field keys for structured logging
const (
	LogFieldItem     = "item"
	LogFieldSlots    = "slots"
	LogFieldCapacity = "capacity"
	LogFieldPlayer   = "player_id"
)
