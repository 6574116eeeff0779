package stores

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retailpulse/retailpulse/internal/platform/httpx"
	"github.com/retailpulse/retailpulse/internal/rbac"
)

// Handler exposes the store CRUD and enablement endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    *rbac.Gate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers store routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Post("/{id}/categories/{categoryID}/enable-all-products", h.enableAllProducts)
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, action rbac.Action, scopes ...rbac.ScopeCheck) *rbac.Actor {
	dec := h.gate.Authorize(r.Context(), rbac.Requirement{
		Section:  rbac.SectionAdministration,
		Resource: rbac.ResourceStore,
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
		h.logger.Error("list stores failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := h.authorize(w, r, rbac.ActionView, rbac.ScopeCheck{Level: rbac.ScopeStore, ID: id})
	if actor == nil {
		return
	}
	store, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, store)
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
	// The store lands in a region, so the target region must be in scope.
	if !rbac.InScope(actor, rbac.ScopeRegion, input.RegionID) {
		httpx.Error(w, http.StatusForbidden, "Forbidden - Not in your assigned scope")
		return
	}
	store, err := h.service.Create(r.Context(), actor.UserID, input)
	if err != nil {
		h.logger.Error("create store failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, store)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := h.authorize(w, r, rbac.ActionEdit, rbac.ScopeCheck{Level: rbac.ScopeStore, ID: id})
	if actor == nil {
		return
	}
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	store, err := h.service.Update(r.Context(), actor.UserID, id, input)
	if err != nil {
		h.logger.Error("update store failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, store)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := h.authorize(w, r, rbac.ActionDelete, rbac.ScopeCheck{Level: rbac.ScopeStore, ID: id})
	if actor == nil {
		return
	}
	if err := h.service.Delete(r.Context(), actor.UserID, id); err != nil {
		h.logger.Error("delete store failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// enableAllProducts uses the enablement rule set instead of plain store scope:
// super_admin, general_manager and regional_manager may enable on any store,
// everyone else needs the store id explicitly assigned.
func (h *Handler) enableAllProducts(w http.ResponseWriter, r *http.Request) {
	dec := h.gate.Authorize(r.Context(), rbac.Requirement{
		Section: rbac.SectionAdministration,
	})
	if !dec.OK {
		httpx.Error(w, dec.Status, dec.Message)
		return
	}
	storeID := chi.URLParam(r, "id")
	categoryID := chi.URLParam(r, "categoryID")
	if !rbac.CanManageStoreEnablement(dec.Actor, storeID) {
		httpx.Error(w, http.StatusForbidden, "Forbidden - Not in your assigned scope")
		return
	}
	result, err := h.service.EnableAllProducts(r.Context(), dec.Actor.UserID, storeID, categoryID)
	if err != nil {
		h.logger.Error("enable all products failed", slog.Any("error", err),
			slog.String("store_id", storeID), slog.String("category_id", categoryID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
