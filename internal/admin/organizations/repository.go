package organizations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailpulse/retailpulse/internal/shared"
)

// Repository defines persistence operations for organizations.
type Repository interface {
	List(ctx context.Context) ([]Organization, error)
	Get(ctx context.Context, id string) (Organization, error)
	Create(ctx context.Context, name string) (Organization, error)
	Update(ctx context.Context, id, name string) (Organization, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Organization, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, created_at, updated_at
FROM organizations
ORDER BY name, id`)
	if err != nil {
		return nil, shared.TranslateStorageError(err)
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
SELECT id, name, created_at, updated_at
FROM organizations
WHERE id = $1`, id).Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return Organization{}, shared.TranslateStorageError(err)
	}
	return org, nil
}

func (r *repository) Create(ctx context.Context, name string) (Organization, error) {
	now := time.Now().UTC()
	org := Organization{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	_, err := r.pool.Exec(ctx, `
INSERT INTO organizations (id, name, created_at, updated_at)
VALUES ($1, $2, $3, $4)`, org.ID, org.Name, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		return Organization{}, shared.TranslateStorageError(err)
	}
	return org, nil
}

func (r *repository) Update(ctx context.Context, id, name string) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
UPDATE organizations
SET name = $2, updated_at = $3
WHERE id = $1
RETURNING id, name, created_at, updated_at`, id, name, time.Now().UTC()).
		Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return Organization{}, shared.TranslateStorageError(err)
	}
	return org, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return shared.TranslateStorageError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
