package categories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailpulse/retailpulse/internal/shared"
)

// Repository defines persistence operations for categories.
type Repository interface {
	List(ctx context.Context, allowedIDs []string) ([]Category, error)
	Get(ctx context.Context, id string) (Category, error)
	Create(ctx context.Context, name string) (Category, error)
	Update(ctx context.Context, id, name string) (Category, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// List returns categories ordered by name. A nil allowedIDs returns every
// category; a non-nil slice restricts rows to those ids, including the empty
// slice which yields no rows.
func (r *repository) List(ctx context.Context, allowedIDs []string) ([]Category, error) {
	query := `
SELECT id, name, created_at, updated_at
FROM categories`
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

	var out []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Category, error) {
	var cat Category
	err := r.pool.QueryRow(ctx, `
SELECT id, name, created_at, updated_at
FROM categories
WHERE id = $1`, id).Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return Category{}, shared.TranslateStorageError(err)
	}
	return cat, nil
}

func (r *repository) Create(ctx context.Context, name string) (Category, error) {
	now := time.Now().UTC()
	cat := Category{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	_, err := r.pool.Exec(ctx, `
INSERT INTO categories (id, name, created_at, updated_at)
VALUES ($1, $2, $3, $4)`, cat.ID, cat.Name, cat.CreatedAt, cat.UpdatedAt)
	if err != nil {
		return Category{}, shared.TranslateStorageError(err)
	}
	return cat, nil
}

func (r *repository) Update(ctx context.Context, id, name string) (Category, error) {
	var cat Category
	err := r.pool.QueryRow(ctx, `
UPDATE categories
SET name = $2, updated_at = $3
WHERE id = $1
RETURNING id, name, created_at, updated_at`, id, name, time.Now().UTC()).
		Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return Category{}, shared.TranslateStorageError(err)
	}
	return cat, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return shared.TranslateStorageError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
