package regions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retailpulse/retailpulse/internal/platform/httpx"
	"github.com/retailpulse/retailpulse/internal/rbac"
)

// Handler exposes the region CRUD endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    *rbac.Gate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers region routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, action rbac.Action, scopes ...rbac.ScopeCheck) *rbac.Actor {
	dec := h.gate.Authorize(r.Context(), rbac.Requirement{
		Section:  rbac.SectionAdministration,
		Resource: rbac.ResourceRegion,
		Action:   action,
		Scopes:   scopes,
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
	out, err := h.service.List(r.Context(), actor)
	if err != nil {
		h.logger.Error("list regions failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := h.authorize(w, r, rbac.ActionView, rbac.ScopeCheck{Level: rbac.ScopeRegion, ID: id})
	if actor == nil {
		return
	}
	region, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, region)
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
	region, err := h.service.Create(r.Context(), actor.UserID, input)
	if err != nil {
		h.logger.Error("create region failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, region)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := h.authorize(w, r, rbac.ActionEdit, rbac.ScopeCheck{Level: rbac.ScopeRegion, ID: id})
	if actor == nil {
		return
	}
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	region, err := h.service.Update(r.Context(), actor.UserID, id, input)
	if err != nil {
		h.logger.Error("update region failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, region)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := h.authorize(w, r, rbac.ActionDelete, rbac.ScopeCheck{Level: rbac.ScopeRegion, ID: id})
	if actor == nil {
		return
	}
	if err := h.service.Delete(r.Context(), actor.UserID, id); err != nil {
		h.logger.Error("delete region failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
