package domain

import "github.com/google/uuid"

// ItemMeta is the immutable catalog metadata for one item key.
type ItemMeta struct {
	Key             string           `json:"key"`
	DisplayName     string           `json:"display_name"`
	MaxStack        int              `json:"max_stack"`
	OccupiesSlot    bool             `json:"occupies_slot"`
	Equip           bool             `json:"equip"`
	SubOptionGroups []SubOptionGroup `json:"sub_option_groups,omitempty"`
}

// Stackable reports whether units of this item merge into a single row.
func (m ItemMeta) Stackable() bool {
	return m.MaxStack > 1
}

// SubOptionGroup is one weighted table of possible equipment sub-options;
// committing an equip item rolls exactly one option per group.
type SubOptionGroup struct {
	Options     []SubOptionDef `json:"options"`
	TotalWeight int            `json:"-"`
}

// SubOptionDef is a single rollable equipment affix.
type SubOptionDef struct {
	Effect      string `json:"effect"`
	Value       int    `json:"value"`
	Weight      int    `json:"weight"`
	CumulWeight int    `json:"-"`
}

// ItemOption is a rolled (or fixed) affix attached to an item instance.
type ItemOption struct {
	Effect string `json:"effect" db:"effect"`
	Value  int    `json:"value" db:"option_value"`
}

// ItemInstance is one non-stackable inventory row.
type ItemInstance struct {
	InstanceID uuid.UUID    `json:"instance_id" db:"instance_id"`
	ItemKey    string       `json:"item_key" db:"item_key"`
	Options    []ItemOption `json:"options,omitempty"`
}
