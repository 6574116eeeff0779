package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/retailpulse/retailpulse/internal/shared"
)

// RespondError maps domain errors onto HTTP statuses. Messages come from
// the stable sentinel errors, never from driver internals.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, shared.ErrNotFound.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, shared.ErrDuplicate.Error())
	case errors.Is(err, shared.ErrReferenceMissing):
		Error(w, http.StatusBadRequest, shared.ErrReferenceMissing.Error())
	case errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrImmutableField):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, shared.ErrInvalidCredentials.Error())
	case errors.Is(err, shared.ErrCSRFTokenMissing), errors.Is(err, shared.ErrCSRFTokenMismatch):
		Error(w, http.StatusForbidden, "invalid csrf token")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		Error(w, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.")
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
