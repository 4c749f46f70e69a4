package domain

// InventorySnapshot is a read-only view of one player's inventory at the
// start of a request. Stacks maps item key to held amount for stackable
// items; Instances lists non-stackable rows per item key.
type InventorySnapshot struct {
	PlayerID  string
	Stacks    map[string]int
	Instances map[string][]ItemInstance
}

// Amount returns the on-record amount for an item key, counting instances
// for non-stackable items.
func (s *InventorySnapshot) Amount(itemKey string) int {
	if n, ok := s.Stacks[itemKey]; ok {
		return n
	}
	return len(s.Instances[itemKey])
}

// SlotCount computes occupied inventory slots: one slot per stackable row
// regardless of quantity, one slot per non-stackable instance.
func (s *InventorySnapshot) SlotCount() int {
	count := 0
	for _, amount := range s.Stacks {
		if amount > 0 {
			count++
		}
	}
	for _, instances := range s.Instances {
		count += len(instances)
	}
	return count
}

// PendingDelta is an inventory change already decided earlier in the same
// transaction but not yet reflected in the snapshot. The simulator folds
// these into its baseline slot projection.
type PendingDelta struct {
	ItemKey string
	Amount  int
}
