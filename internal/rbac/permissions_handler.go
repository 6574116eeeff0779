package rbac

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/retailpulse/retailpulse/internal/platform/httpx"
)

// PermissionsHandler serves the permission snapshot the browser uses for UI
// gating: which sections to render, which controls to show, which data scope
// to preselect in filters. The payload is advisory only — every operation the
// client believes it may perform is still authorized server-side, and the
// client must handle a 403 gracefully even when its cached snapshot said
// otherwise (it may be stale after a role change).
type PermissionsHandler struct {
	logger *slog.Logger
	gate   *Gate
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, gate *Gate) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, gate: gate}
}

// MountRoutes registers the snapshot endpoint.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Get("/permissions", h.show)
}

type permissionsPayload struct {
	Role      string              `json:"role"`
	Sections  []string            `json:"sections"`
	Rules     map[string][]string `json:"rules"`
	CanExport bool                `json:"canExport"`
	DataScope dataScopePayload    `json:"dataScope"`
}

type dataScopePayload struct {
	Regions    []string `json:"regions"`
	Stores     []string `json:"stores"`
	Categories []string `json:"categories"`
}

func (h *PermissionsHandler) show(w http.ResponseWriter, r *http.Request) {
	dec := h.gate.Authorize(r.Context(), Requirement{})
	if !dec.OK {
		httpx.Error(w, dec.Status, dec.Message)
		return
	}
	actor := dec.Actor

	sections := make([]string, 0, len(actor.Config.Sections))
	for section := range actor.Config.Sections {
		sections = append(sections, string(section))
	}
	sort.Strings(sections)

	rules := make(map[string][]string, len(actor.Config.Rules))
	for resource, actions := range actor.Config.Rules {
		names := make([]string, 0, len(actions))
		for action := range actions {
			names = append(names, string(action))
		}
		sort.Strings(names)
		rules[string(resource)] = names
	}

	httpx.JSON(w, http.StatusOK, permissionsPayload{
		Role:      string(actor.Role),
		Sections:  sections,
		Rules:     rules,
		CanExport: actor.Config.CanExport,
		DataScope: dataScopePayload{
			Regions:    emptyIfNil(actor.Profile.AllowedRegions),
			Stores:     emptyIfNil(actor.Profile.AllowedStores),
			Categories: emptyIfNil(actor.Profile.AllowedCategories),
		},
	})
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
