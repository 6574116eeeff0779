package products

// CreateInput is the payload for POST /api/products.
type CreateInput struct {
	CategoryID string `json:"category_id" validate:"required,uuid4"`
	SKU        string `json:"sku" validate:"required,min=2,max=64"`
	Name       string `json:"name" validate:"required,min=2,max=160"`
}

// UpdateInput is the payload for PATCH /api/products/{id}. A category_id in
// the patch is a cross-category move; the target id goes through the same
// scope check as the current one.
type UpdateInput struct {
	CategoryID *string `json:"category_id" validate:"omitempty,uuid4"`
	SKU        *string `json:"sku" validate:"omitempty,min=2,max=64"`
	Name       *string `json:"name" validate:"omitempty,min=2,max=160"`
}
