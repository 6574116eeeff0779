package organizations

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retailpulse/retailpulse/internal/platform/httpx"
	"github.com/retailpulse/retailpulse/internal/rbac"
)

// Handler exposes the organization CRUD endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    *rbac.Gate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers organization routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, action rbac.Action) *rbac.Actor {
	dec := h.gate.Authorize(r.Context(), rbac.Requirement{
		Section:  rbac.SectionAdministration,
		Resource: rbac.ResourceOrganization,
		Action:   action,
	})
	if !dec.OK {
		httpx.Error(w, dec.Status, dec.Message)
		return nil
	}
	return dec.Actor
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if actor := h.authorize(w, r, rbac.ActionView); actor == nil {
		return
	}
	orgs, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list organizations failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orgs)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	if actor := h.authorize(w, r, rbac.ActionView); actor == nil {
		return
	}
	org, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
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
	org, err := h.service.Create(r.Context(), actor.UserID, input)
	if err != nil {
		h.logger.Error("create organization failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, org)
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
	org, err := h.service.Update(r.Context(), actor.UserID, chi.URLParam(r, "id"), input)
	if err != nil {
		h.logger.Error("update organization failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor := h.authorize(w, r, rbac.ActionDelete)
	if actor == nil {
		return
	}
	if err := h.service.Delete(r.Context(), actor.UserID, chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete organization failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
