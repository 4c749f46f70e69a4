package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog / configuration errors
	ErrMsgEmptyPool         = "pool has no roll weight"
	ErrMsgPoolNotFound      = "reward pool not found"
	ErrMsgCampaignNotFound  = "campaign config not found"
	ErrMsgRewardSetNotFound = "reward set not found"
	ErrMsgItemMetaNotFound  = "item metadata not found"
	ErrMsgCyclicRewardSet   = "cyclic reward set definition"
	ErrMsgNoMatchingPickup  = "no entries match pickup group"

	// Admission errors
	ErrMsgCapacityExceeded  = "inventory capacity exceeded"
	ErrMsgRewardRejected    = "reward rejected"
	ErrMsgInsufficientFunds = "insufficient funds"

	// Persistence errors
	ErrMsgCommitFailed = "batch commit failed"

	// Input errors
	ErrMsgInvalidDrawCount = "draw count must be positive"
	ErrMsgPlayerNotFound   = "player not found"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Catalog / configuration errors. These abort only the affected draw or
	// expansion and never corrupt persisted state.
	ErrEmptyPool         = errors.New(ErrMsgEmptyPool)
	ErrPoolNotFound      = errors.New(ErrMsgPoolNotFound)
	ErrCampaignNotFound  = errors.New(ErrMsgCampaignNotFound)
	ErrRewardSetNotFound = errors.New(ErrMsgRewardSetNotFound)
	ErrItemMetaNotFound  = errors.New(ErrMsgItemMetaNotFound)
	ErrCyclicRewardSet   = errors.New(ErrMsgCyclicRewardSet)
	ErrNoMatchingPickup  = errors.New(ErrMsgNoMatchingPickup)

	// Admission errors. These abort the entire batch before any mutation.
	ErrCapacityExceeded  = errors.New(ErrMsgCapacityExceeded)
	ErrRewardRejected    = errors.New(ErrMsgRewardRejected)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Persistence errors. Fatal to the request; distinct from admission
	// rejection so callers may retry identically.
	ErrCommitFailed = errors.New(ErrMsgCommitFailed)

	// Input errors
	ErrInvalidDrawCount = errors.New(ErrMsgInvalidDrawCount)
	ErrPlayerNotFound   = errors.New(ErrMsgPlayerNotFound)
)
