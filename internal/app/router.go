package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/retailpulse/retailpulse/internal/admin/categories"
	"github.com/retailpulse/retailpulse/internal/admin/organizations"
	"github.com/retailpulse/retailpulse/internal/admin/products"
	"github.com/retailpulse/retailpulse/internal/admin/regions"
	"github.com/retailpulse/retailpulse/internal/admin/stores"
	"github.com/retailpulse/retailpulse/internal/auth"
	"github.com/retailpulse/retailpulse/internal/observability"
	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	AuthHandler          *auth.Handler
	OrganizationsHandler *organizations.Handler
	RegionsHandler       *regions.Handler
	StoresHandler        *stores.Handler
	CategoriesHandler    *categories.Handler
	ProductsHandler      *products.Handler
	UsersHandler         *users.Handler
	PermissionsHandler   *rbac.PermissionsHandler
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router for the admin API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	mwCfg := MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}
	if params.AuthHandler != nil {
		mwCfg.SessionManager = params.AuthHandler.SessionManager()
		mwCfg.CSRFManager = params.AuthHandler.CSRFManager()
	}
	for _, mw := range MiddlewareStack(mwCfg) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		if params.AuthHandler != nil {
			r.Route("/auth", func(r chi.Router) {
				// Login attempts get a much stricter budget than general traffic.
				if params.Config != nil && params.Config.RateLimitAuthRequests > 0 {
					r.Use(RateLimiter(params.Config.RateLimitAuthRequests, params.Config.RateLimitAuthWindow))
				}
				params.AuthHandler.MountRoutes(r)
			})
		}
		if params.PermissionsHandler != nil {
			r.Route("/me", params.PermissionsHandler.MountRoutes)
		}
		if params.OrganizationsHandler != nil {
			r.Route("/organizations", params.OrganizationsHandler.MountRoutes)
		}
		if params.RegionsHandler != nil {
			r.Route("/regions", params.RegionsHandler.MountRoutes)
		}
		if params.StoresHandler != nil {
			r.Route("/stores", params.StoresHandler.MountRoutes)
		}
		if params.CategoriesHandler != nil {
			r.Route("/categories", params.CategoriesHandler.MountRoutes)
		}
		if params.ProductsHandler != nil {
			r.Route("/products", params.ProductsHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
