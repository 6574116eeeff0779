package products

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailpulse/retailpulse/internal/shared"
)

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context, allowedCategoryIDs []string) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// List returns products ordered by name. A nil allowedCategoryIDs returns
// every product; a non-nil slice restricts rows to those categories,
// including the empty slice which yields no rows.
func (r *repository) List(ctx context.Context, allowedCategoryIDs []string) ([]Product, error) {
	query := `
SELECT id, category_id, sku, name, created_at, updated_at
FROM products`
	args := []any{}
	if allowedCategoryIDs != nil {
		query += ` WHERE category_id = ANY($1)`
		args = append(args, allowedCategoryIDs)
	}
	query += ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.TranslateStorageError(err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.SKU, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `
SELECT id, category_id, sku, name, created_at, updated_at
FROM products
WHERE id = $1`, id).Scan(&p.ID, &p.CategoryID, &p.SKU, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, shared.TranslateStorageError(err)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `
INSERT INTO products (id, category_id, sku, name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.CategoryID, p.SKU, p.Name, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Product{}, shared.TranslateStorageError(err)
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, p Product) (Product, error) {
	var out Product
	err := r.pool.QueryRow(ctx, `
UPDATE products
SET category_id = $2, sku = $3, name = $4, updated_at = $5
WHERE id = $1
RETURNING id, category_id, sku, name, created_at, updated_at`,
		p.ID, p.CategoryID, p.SKU, p.Name, time.Now().UTC()).
		Scan(&out.ID, &out.CategoryID, &out.SKU, &out.Name, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return Product{}, shared.TranslateStorageError(err)
	}
	return out, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return shared.TranslateStorageError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
