package shared

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates a uniqueness violation.
	ErrDuplicate = errors.New("a record with this information already exists")
	// ErrReferenceMissing indicates a referenced record does not exist.
	ErrReferenceMissing = errors.New("referenced record does not exist")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrImmutableField indicates an attempt to change a field fixed at creation.
	ErrImmutableField = errors.New("field cannot be changed after creation")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// TranslateStorageError converts storage-level failures into stable domain
// errors. Raw constraint names and driver messages never reach a client.
func TranslateStorageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrReferenceMissing
		case "23502", "23514":
			return ErrValidation
		}
	}
	return err
}
