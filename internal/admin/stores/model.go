package stores

import "time"

// Store belongs to exactly one region; the region reference is fixed at
// creation.
type Store struct {
	ID        string    `json:"id"`
	RegionID  string    `json:"region_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EnablementResult reports how many products a bulk enablement touched.
type EnablementResult struct {
	StoreID         string `json:"store_id"`
	CategoryID      string `json:"category_id"`
	ProductsEnabled int    `json:"products_enabled"`
}
