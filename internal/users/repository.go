package users

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailpulse/retailpulse/internal/platform/db"
	"github.com/retailpulse/retailpulse/internal/shared"
)

// RepositoryPort defines data access methods for user management.
type RepositoryPort interface {
	List(ctx context.Context, organizationID string, filters ListFilters) ([]User, error)
	Get(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, u User, passwordHash string) (User, error)
	Update(ctx context.Context, u User) (User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

const userColumns = `u.id, u.email, p.full_name, COALESCE(r.name, ''), p.organization_id,
p.allowed_regions, p.allowed_stores, p.allowed_categories, p.is_active,
u.created_at, u.updated_at`

const userJoins = `
FROM users u
JOIN user_profiles p ON p.user_id = u.id
LEFT JOIN roles r ON r.id = p.role_id`

// List applies the optional filters on top of an organization restriction.
// An empty organizationID means no restriction (super_admin). Ordering is
// fixed so repeated calls return identical result sets.
func (r *repository) List(ctx context.Context, organizationID string, filters ListFilters) ([]User, error) {
	query := `
SELECT ` + userColumns + userJoins + `
WHERE 1=1`
	args := []any{}
	argCount := 0

	next := func(v any) string {
		argCount++
		args = append(args, v)
		return "$" + strconv.Itoa(argCount)
	}

	if organizationID != "" {
		query += ` AND p.organization_id = ` + next(organizationID)
	}
	if filters.Role != "" {
		query += ` AND r.name = ` + next(filters.Role)
	}
	if filters.Region != "" {
		query += ` AND ` + next(filters.Region) + ` = ANY(p.allowed_regions)`
	}
	switch filters.Status {
	case "active":
		query += ` AND p.is_active`
	case "inactive":
		query += ` AND NOT p.is_active`
	}
	if filters.Search != "" {
		placeholder := next("%" + filters.Search + "%")
		query += ` AND (p.full_name ILIKE ` + placeholder + ` OR u.email ILIKE ` + placeholder + `)`
	}

	query += ` ORDER BY p.full_name, u.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.TranslateStorageError(err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.OrganizationID,
			&u.AllowedRegions, &u.AllowedStores, &u.AllowedCategories, &u.IsActive,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
SELECT `+userColumns+userJoins+`
WHERE u.id = $1`, id).Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.OrganizationID,
		&u.AllowedRegions, &u.AllowedStores, &u.AllowedCategories, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, shared.TranslateStorageError(err)
	}
	return u, nil
}

func (r *repository) Create(ctx context.Context, u User, passwordHash string) (User, error) {
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.IsActive = true

	// The account row and its profile land together or not at all.
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
INSERT INTO users (id, email, password_hash, is_active, created_at, updated_at)
VALUES ($1, $2, $3, TRUE, $4, $5)`,
			u.ID, u.Email, passwordHash, u.CreatedAt, u.UpdatedAt); err != nil {
			return shared.TranslateStorageError(err)
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO user_profiles (user_id, full_name, role_id, organization_id,
	allowed_regions, allowed_stores, allowed_categories, is_active)
VALUES ($1, $2, (SELECT id FROM roles WHERE name = $3), $4, $5, $6, $7, TRUE)`,
			u.ID, u.FullName, u.Role, u.OrganizationID,
			u.AllowedRegions, u.AllowedStores, u.AllowedCategories); err != nil {
			return shared.TranslateStorageError(err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *repository) Update(ctx context.Context, u User) (User, error) {
	_, err := r.pool.Exec(ctx, `
UPDATE user_profiles
SET full_name = $2, role_id = (SELECT id FROM roles WHERE name = $3),
	allowed_regions = $4, allowed_stores = $5, allowed_categories = $6,
	is_active = $7
WHERE user_id = $1`,
		u.ID, u.FullName, u.Role,
		u.AllowedRegions, u.AllowedStores, u.AllowedCategories, u.IsActive)
	if err != nil {
		return User{}, shared.TranslateStorageError(err)
	}
	return r.Get(ctx, u.ID)
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE user_profiles SET is_active = $2 WHERE user_id = $1`, id, active)
	if err != nil {
		return shared.TranslateStorageError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	_, err = r.pool.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now().UTC())
	return shared.TranslateStorageError(err)
}
