package users

// CreateInput is the payload for POST /api/users.
type CreateInput struct {
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=12"`
	FullName          string   `json:"full_name" validate:"required,min=2,max=160"`
	Role              string   `json:"role" validate:"required"`
	OrganizationID    string   `json:"organization_id" validate:"required,uuid4"`
	AllowedRegions    []string `json:"allowed_regions" validate:"omitempty,dive,uuid4"`
	AllowedStores     []string `json:"allowed_stores" validate:"omitempty,dive,uuid4"`
	AllowedCategories []string `json:"allowed_categories" validate:"omitempty,dive,uuid4"`
}

// UpdateInput is the payload for PATCH /api/users/{id}. Privilege fields are
// only reachable through the user-management section; accounts never mutate
// their own role or scope through any other surface.
type UpdateInput struct {
	FullName          *string   `json:"full_name" validate:"omitempty,min=2,max=160"`
	Role              *string   `json:"role"`
	AllowedRegions    *[]string `json:"allowed_regions" validate:"omitempty,dive,uuid4"`
	AllowedStores     *[]string `json:"allowed_stores" validate:"omitempty,dive,uuid4"`
	AllowedCategories *[]string `json:"allowed_categories" validate:"omitempty,dive,uuid4"`
	IsActive          *bool     `json:"is_active"`
}
