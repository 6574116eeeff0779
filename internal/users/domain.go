package users

import "time"

// User is a managed account together with its authorization profile.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	Role              string    `json:"role"`
	OrganizationID    string    `json:"organization_id"`
	AllowedRegions    []string  `json:"allowed_regions"`
	AllowedStores     []string  `json:"allowed_stores"`
	AllowedCategories []string  `json:"allowed_categories"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ListFilters narrows the user list. Zero values mean "no filter".
type ListFilters struct {
	Role   string
	Region string
	Status string
	Search string
}
