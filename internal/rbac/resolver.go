package rbac

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrorCode categorizes actor-load failures. The distinction is operator
// diagnostics only: end users see a generic response regardless of code.
type ErrorCode string

const (
	// CodeProfileNotFound means the authenticated user has no profile row.
	CodeProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	// CodeRLSError means the store itself refused the read through its own
	// row-level policies. This is a store misconfiguration, not an
	// application-level deny.
	CodeRLSError ErrorCode = "RLS_ERROR"
	// CodeDatabaseError covers other store failures.
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
	// CodeNoRoleAssigned means the profile exists but carries no role.
	CodeNoRoleAssigned ErrorCode = "NO_ROLE_ASSIGNED"
	// CodeUnknownRole means the stored role name is not in the registry.
	CodeUnknownRole ErrorCode = "UNKNOWN_ROLE"
	// CodeSystemError covers timeouts, network failures and anything
	// unexpected. Surfaced as temporarily-unavailable, never as a deny.
	CodeSystemError ErrorCode = "SYSTEM_ERROR"
)

// ActorError is a categorized actor-load failure.
type ActorError struct {
	Code ErrorCode
	Err  error
}

func (e *ActorError) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *ActorError) Unwrap() error { return e.Err }

// Transient reports whether the failure is infrastructure trouble rather than
// account state, so callers answer 503 instead of 403.
func (e *ActorError) Transient() bool {
	return e.Code == CodeSystemError
}

// Resolver loads the caller's role and profile from the backing store.
type Resolver struct {
	pool *pgxpool.Pool
}

// NewResolver constructs a Resolver backed by the provided pool.
func NewResolver(pool *pgxpool.Pool) *Resolver {
	return &Resolver{pool: pool}
}

const actorQuery = `
SELECT p.user_id, p.organization_id, r.name, p.allowed_regions, p.allowed_stores, p.allowed_categories, p.is_active
FROM user_profiles p
LEFT JOIN roles r ON r.id = p.role_id
WHERE p.user_id = $1`

// LoadActor resolves role and profile in a single round trip. Joining the two
// reads avoids a window where they could disagree, and halves the latency on
// the hottest path in the system. Expected conditions are returned as
// categorized errors, never panics; unexpected failures collapse into
// CodeSystemError.
func (r *Resolver) LoadActor(ctx context.Context, userID string) (*Actor, *ActorError) {
	var (
		profile  Profile
		roleName *string
	)
	err := r.pool.QueryRow(ctx, actorQuery, userID).Scan(
		&profile.UserID,
		&profile.OrganizationID,
		&roleName,
		&profile.AllowedRegions,
		&profile.AllowedStores,
		&profile.AllowedCategories,
		&profile.IsActive,
	)
	if err != nil {
		return nil, classifyLoadError(err)
	}
	if roleName == nil || *roleName == "" {
		return nil, &ActorError{Code: CodeNoRoleAssigned}
	}
	role, ok := ParseRole(*roleName)
	if !ok {
		return nil, &ActorError{Code: CodeUnknownRole, Err: fmt.Errorf("role %q not registered", *roleName)}
	}
	return &Actor{
		UserID:  profile.UserID,
		Role:    role,
		Config:  Lookup(role),
		Profile: profile,
	}, nil
}

func classifyLoadError(err error) *ActorError {
	if errors.Is(err, pgx.ErrNoRows) {
		return &ActorError{Code: CodeProfileNotFound, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ActorError{Code: CodeSystemError, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &ActorError{Code: CodeSystemError, Err: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42501", "42P17":
			return &ActorError{Code: CodeRLSError, Err: err}
		}
		return &ActorError{Code: CodeDatabaseError, Err: err}
	}
	return &ActorError{Code: CodeSystemError, Err: err}
}
