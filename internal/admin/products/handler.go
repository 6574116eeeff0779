package products

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retailpulse/retailpulse/internal/platform/httpx"
	"github.com/retailpulse/retailpulse/internal/rbac"
)

// Handler exposes the product CRUD endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    *rbac.Gate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers product routes.
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
		Resource: rbac.ResourceProduct,
		Action:   action,
	})
	if !dec.OK {
		httpx.Error(w, dec.Status, dec.Message)
		return nil
	}
	return dec.Actor
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotInCategories) {
		httpx.Error(w, http.StatusForbidden, ErrNotInCategories.Error())
		return
	}
	httpx.RespondError(w, err)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := h.authorize(w, r, rbac.ActionView)
	if actor == nil {
		return
	}
	out, err := h.service.List(r.Context(), actor)
	if err != nil {
		h.logger.Error("list products failed", slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor := h.authorize(w, r, rbac.ActionView)
	if actor == nil {
		return
	}
	p, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
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
	p, err := h.service.Create(r.Context(), actor, input)
	if err != nil {
		h.logger.Error("create product failed", slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
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
	p, err := h.service.Update(r.Context(), actor, id, input)
	if err != nil {
		h.logger.Error("update product failed", slog.Any("error", err), slog.String("id", id))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor := h.authorize(w, r, rbac.ActionDelete)
	if actor == nil {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.logger.Error("delete product failed", slog.Any("error", err), slog.String("id", id))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
