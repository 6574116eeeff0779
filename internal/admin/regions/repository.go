package regions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailpulse/retailpulse/internal/shared"
)

// Repository defines persistence operations for regions.
type Repository interface {
	List(ctx context.Context, allowedIDs []string) ([]Region, error)
	Get(ctx context.Context, id string) (Region, error)
	Create(ctx context.Context, organizationID, name string) (Region, error)
	UpdateName(ctx context.Context, id, name string) (Region, error)
	AssignManager(ctx context.Context, id, managerID string) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// List returns regions ordered by name. A nil allowedIDs returns every
// region; a non-nil slice restricts rows to those ids, including the empty
// slice which yields no rows.
func (r *repository) List(ctx context.Context, allowedIDs []string) ([]Region, error) {
	query := `
SELECT id, organization_id, name, manager_id, created_at, updated_at
FROM regions`
	args := []any{}
	if allowedIDs != nil {
		query += ` WHERE id = ANY($1)`
		args = append(args, allowedIDs)
	}
	query += ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.TranslateStorageError(err)
	}
	defer rows.Close()

	var out []Region
	for rows.Next() {
		var region Region
		if err := rows.Scan(&region.ID, &region.OrganizationID, &region.Name,
			&region.ManagerID, &region.CreatedAt, &region.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, region)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Region, error) {
	var region Region
	err := r.pool.QueryRow(ctx, `
SELECT id, organization_id, name, manager_id, created_at, updated_at
FROM regions
WHERE id = $1`, id).Scan(&region.ID, &region.OrganizationID, &region.Name,
		&region.ManagerID, &region.CreatedAt, &region.UpdatedAt)
	if err != nil {
		return Region{}, shared.TranslateStorageError(err)
	}
	return region, nil
}

func (r *repository) Create(ctx context.Context, organizationID, name string) (Region, error) {
	now := time.Now().UTC()
	region := Region{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO regions (id, organization_id, name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`,
		region.ID, region.OrganizationID, region.Name, region.CreatedAt, region.UpdatedAt)
	if err != nil {
		return Region{}, shared.TranslateStorageError(err)
	}
	return region, nil
}

func (r *repository) UpdateName(ctx context.Context, id, name string) (Region, error) {
	var region Region
	err := r.pool.QueryRow(ctx, `
UPDATE regions
SET name = $2, updated_at = $3
WHERE id = $1
RETURNING id, organization_id, name, manager_id, created_at, updated_at`,
		id, name, time.Now().UTC()).
		Scan(&region.ID, &region.OrganizationID, &region.Name,
			&region.ManagerID, &region.CreatedAt, &region.UpdatedAt)
	if err != nil {
		return Region{}, shared.TranslateStorageError(err)
	}
	return region, nil
}

// AssignManager delegates to the assign_region_manager routine, which also
// maintains the manager's profile scope rows.
func (r *repository) AssignManager(ctx context.Context, id, managerID string) error {
	_, err := r.pool.Exec(ctx, `SELECT assign_region_manager($1, $2)`, id, managerID)
	return shared.TranslateStorageError(err)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return shared.TranslateStorageError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
