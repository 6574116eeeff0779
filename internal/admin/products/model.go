package products

import "time"

// Product belongs to exactly one category.
type Product struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
