package regions

import "time"

// Region groups stores under an organization. The organization reference is
// fixed at creation.
type Region struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	ManagerID      *string   `json:"manager_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
