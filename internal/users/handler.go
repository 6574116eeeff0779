package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retailpulse/retailpulse/internal/platform/httpx"
	"github.com/retailpulse/retailpulse/internal/rbac"
)

// Handler manages user management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    *rbac.Gate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/deactivate", h.deactivate)
	r.Post("/{id}/reset-password", h.resetPassword)
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, action rbac.Action) *rbac.Actor {
	dec := h.gate.Authorize(r.Context(), rbac.Requirement{
		Section:  rbac.SectionUserManagement,
		Resource: rbac.ResourceUser,
		Action:   action,
	})
	if !dec.OK {
		httpx.Error(w, dec.Status, dec.Message)
		return nil
	}
	return dec.Actor
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := h.authorize(w, r, rbac.ActionView)
	if actor == nil {
		return
	}
	filters := ListFilters{
		Role:   r.URL.Query().Get("role"),
		Region: r.URL.Query().Get("region"),
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	out, err := h.service.List(r.Context(), actor, filters)
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor := h.authorize(w, r, rbac.ActionView)
	if actor == nil {
		return
	}
	user, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor := h.authorize(w, r, rbac.ActionCreate)
	if actor == nil {
		return
	}
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.service.Create(r.Context(), actor, input)
	if err != nil {
		h.logger.Error("create user failed", slog.Any("error", err))
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor := h.authorize(w, r, rbac.ActionEdit)
	if actor == nil {
		return
	}
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := chi.URLParam(r, "id")
	user, err := h.service.Update(r.Context(), actor, id, input)
	if err != nil {
		h.logger.Error("update user failed", slog.Any("error", err), slog.String("id", id))
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	actor := h.authorize(w, r, rbac.ActionEdit)
	if actor == nil {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.Deactivate(r.Context(), actor, id); err != nil {
		h.logger.Error("deactivate user failed", slog.Any("error", err), slog.String("id", id))
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// respondErr maps the privilege-guard sentinels onto their HTTP statuses
// before falling back to the shared error translation.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSelfDeactivation):
		httpx.Error(w, http.StatusBadRequest, ErrSelfDeactivation.Error())
	case errors.Is(err, ErrOutsideOrganization),
		errors.Is(err, ErrPrivilegedRole),
		errors.Is(err, ErrProtectedAccount),
		errors.Is(err, ErrRegionsOutOfScope):
		httpx.Error(w, http.StatusForbidden, err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

// resetPassword is a documented gap: the intended semantics (reset email vs
// direct password set) are undecided, so the route answers 501 instead of
// silently doing nothing.
func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	if actor := h.authorize(w, r, rbac.ActionEdit); actor == nil {
		return
	}
	httpx.Error(w, http.StatusNotImplemented, "password reset is not implemented")
}
