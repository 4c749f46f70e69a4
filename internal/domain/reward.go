package domain

// RewardKind tags the variant carried by a RewardRef.
type RewardKind string

const (
	RewardNone      RewardKind = "NONE"
	RewardCurrency  RewardKind = "CURRENCY"
	RewardItem      RewardKind = "ITEM"
	RewardCharacter RewardKind = "CHARACTER"
	RewardSetRef    RewardKind = "REWARD_SET"
)

// RewardRef is a reference to a reward definition with a signed amount.
// A negative amount means "consume/debit" (currency spend on a paid draw).
type RewardRef struct {
	Kind   RewardKind `json:"kind"`
	Key    string     `json:"key"`
	Amount int        `json:"amount"`
}

// IsNone reports whether the ref is the explicit "nothing to give" sentinel.
func (r RewardRef) IsNone() bool {
	return r.Kind == RewardNone || r.Kind == ""
}

// RewardEntry is one weighted row of a pool or reward-set random table.
// CumulWeight is the running total up to and including this entry, computed
// once when the catalog loads so rolls can binary-search instead of scanning.
type RewardEntry struct {
	Weight      int       `json:"weight"`
	CumulWeight int       `json:"-"`
	PickupGroup int       `json:"pickup_group"`
	Reward      RewardRef `json:"reward"`
}

// RewardPool is an immutable weighted table keyed by pool key.
// Entries keep their declared order; ties on cumulative weight resolve to
// the earlier entry.
type RewardPool struct {
	Key         string        `json:"key"`
	Entries     []RewardEntry `json:"entries"`
	TotalWeight int           `json:"-"`
}

// RewardSet is a composite reward definition: every static entry is granted,
// and if Randoms is non-empty exactly one weighted sub-option is drawn per
// expansion.
type RewardSet struct {
	Key         string        `json:"key"`
	Statics     []RewardRef   `json:"statics"`
	Randoms     []RewardEntry `json:"randoms"`
	TotalWeight int           `json:"-"`
}

// RewardGrant is one atomic, fully resolved grant produced by expansion.
type RewardGrant struct {
	Kind   RewardKind `json:"kind"`
	Key    string     `json:"key"`
	Amount int        `json:"amount"`
}

// GrantBatch is an ordered sequence of atomic grants. Order is not
// semantically significant except that merges must produce stable results.
type GrantBatch []RewardGrant
