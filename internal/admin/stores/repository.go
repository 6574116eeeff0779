package stores

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailpulse/retailpulse/internal/shared"
)

// Repository defines persistence operations for stores.
type Repository interface {
	List(ctx context.Context, allowedIDs []string) ([]Store, error)
	Get(ctx context.Context, id string) (Store, error)
	Create(ctx context.Context, regionID, name string) (Store, error)
	UpdateName(ctx context.Context, id, name string) (Store, error)
	Delete(ctx context.Context, id string) error
	EnableCategoryProducts(ctx context.Context, storeID, categoryID string) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// List returns stores ordered by name. A nil allowedIDs returns every store;
// a non-nil slice restricts rows to those ids, including the empty slice
// which yields no rows.
func (r *repository) List(ctx context.Context, allowedIDs []string) ([]Store, error) {
	query := `
SELECT id, region_id, name, created_at, updated_at
FROM stores`
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

	var out []Store
	for rows.Next() {
		var store Store
		if err := rows.Scan(&store.ID, &store.RegionID, &store.Name,
			&store.CreatedAt, &store.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, store)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Store, error) {
	var store Store
	err := r.pool.QueryRow(ctx, `
SELECT id, region_id, name, created_at, updated_at
FROM stores
WHERE id = $1`, id).Scan(&store.ID, &store.RegionID, &store.Name,
		&store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return Store{}, shared.TranslateStorageError(err)
	}
	return store, nil
}

func (r *repository) Create(ctx context.Context, regionID, name string) (Store, error) {
	now := time.Now().UTC()
	store := Store{
		ID:        uuid.NewString(),
		RegionID:  regionID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO stores (id, region_id, name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`,
		store.ID, store.RegionID, store.Name, store.CreatedAt, store.UpdatedAt)
	if err != nil {
		return Store{}, shared.TranslateStorageError(err)
	}
	return store, nil
}

func (r *repository) UpdateName(ctx context.Context, id, name string) (Store, error) {
	var store Store
	err := r.pool.QueryRow(ctx, `
UPDATE stores
SET name = $2, updated_at = $3
WHERE id = $1
RETURNING id, region_id, name, created_at, updated_at`,
		id, name, time.Now().UTC()).
		Scan(&store.ID, &store.RegionID, &store.Name, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return Store{}, shared.TranslateStorageError(err)
	}
	return store, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return shared.TranslateStorageError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// EnableCategoryProducts delegates to the enable_category_products routine,
// which upserts one enablement row per product in the category and returns
// the affected count.
func (r *repository) EnableCategoryProducts(ctx context.Context, storeID, categoryID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT enable_category_products($1, $2)`, storeID, categoryID).Scan(&count)
	if err != nil {
		return 0, shared.TranslateStorageError(err)
	}
	return count, nil
}
