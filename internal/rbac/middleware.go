package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/retailpulse/retailpulse/internal/platform/httpx"
)

type actorContextKey struct{}

// ContextWithActor stores the resolved actor in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor placed by the gate middleware.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}

// Middleware wires gate enforcement into chi route groups.
type Middleware struct {
	Gate   *Gate
	Logger *slog.Logger
}

// Require authorizes the declared requirement before the handler runs and
// attaches the actor to the request context. Handlers remain responsible for
// entity-level scope checks on ids that are only known after a fetch, and for
// narrowing list results to the actor's scope.
func (m Middleware) Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dec := m.Gate.Authorize(r.Context(), req)
			if !dec.OK {
				httpx.Error(w, dec.Status, dec.Message)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), dec.Actor)))
		})
	}
}

// RequireSection is shorthand for gating a subtree on section access alone.
func (m Middleware) RequireSection(section Section) func(http.Handler) http.Handler {
	return m.Require(Requirement{Section: section})
}
