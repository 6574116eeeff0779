package regions

// CreateInput is the payload for POST /api/regions.
type CreateInput struct {
	OrganizationID string `json:"organization_id" validate:"required,uuid4"`
	Name           string `json:"name" validate:"required,min=2,max=120"`
}

// UpdateInput is the payload for PATCH /api/regions/{id}. The organization
// reference is immutable and deliberately absent. Manager assignment goes
// through a dedicated storage routine, not a raw column write.
type UpdateInput struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=120"`
	ManagerID *string `json:"manager_id" validate:"omitempty,uuid4"`
}
