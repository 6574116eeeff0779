package stores

// CreateInput is the payload for POST /api/stores.
type CreateInput struct {
	RegionID string `json:"region_id" validate:"required,uuid4"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
}

// UpdateInput is the payload for PATCH /api/stores/{id}. A region move is not
// an update; it is rejected with ErrImmutableField.
type UpdateInput struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=120"`
	RegionID *string `json:"region_id"`
}
