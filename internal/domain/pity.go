package domain

// PityState holds the per-(player, pool) guaranteed-drop counters. Counters
// are never negative; they are loaded at the start of a multi-draw request,
// advanced per draw, and persisted in the same transaction as the grants.
type PityState struct {
	Normal  int `json:"normal" db:"normal_counter"`
	Special int `json:"special" db:"special_counter"`
}

// CampaignConfig is the per-pool pity policy. A zero pickup-group threshold
// disables that pity tier.
type CampaignConfig struct {
	PoolKey            string `json:"pool_key"`
	NormalPickupGroup  int    `json:"normal_pickup_group"`
	SpecialPickupGroup int    `json:"special_pickup_group"`
	SpecialTryCount    int    `json:"special_try_count"`

	// Optional draw cost, debited per request as a negative currency grant.
	CostCurrency string `json:"cost_currency,omitempty"`
	CostAmount   int    `json:"cost_amount,omitempty"`
}

// NormalEnabled reports whether the 10-draw normal pity tier is active.
func (c CampaignConfig) NormalEnabled() bool {
	return c.NormalPickupGroup > 0
}

// SpecialEnabled reports whether the long-cadence special pity tier is active.
func (c CampaignConfig) SpecialEnabled() bool {
	return c.SpecialPickupGroup > 0 && c.SpecialTryCount > 0
}
