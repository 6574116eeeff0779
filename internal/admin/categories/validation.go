package categories

// CreateInput is the payload for POST /api/categories.
type CreateInput struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// UpdateInput is the payload for PATCH /api/categories/{id}.
type UpdateInput struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=120"`
}
