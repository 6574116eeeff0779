package rbac

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/retailpulse/retailpulse/internal/shared"
)

// ActorLoader resolves a user id into a fully loaded Actor.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID string) (*Actor, *ActorError)
}

// ScopeCheck names an entity id the request touches and the level it lives at.
type ScopeCheck struct {
	Level ScopeLevel
	ID    string
}

// Requirement declares what an operation needs: the section it belongs to,
// the (resource, action) pair it performs, and the entity ids it references.
type Requirement struct {
	Section  Section
	Resource Resource
	Action   Action
	Scopes   []ScopeCheck
}

// Decision is the gate's verdict. It is computed fresh on every request from
// current profile state and never cached: profile attributes can change
// between requests and a stale allow would be a security hole.
type Decision struct {
	OK      bool
	Status  int
	Message string
	Reason  string
	Actor   *Actor
}

// DecisionObserver receives the outcome of every gate evaluation.
// observability.Metrics satisfies it.
type DecisionObserver interface {
	ObserveAuthzDecision(outcome string)
}

// Gate is the single enforcement choke-point executed before any privileged
// operation.
type Gate struct {
	loader   ActorLoader
	logger   *slog.Logger
	observer DecisionObserver
}

// NewGate constructs a Gate. The observer may be nil.
func NewGate(loader ActorLoader, logger *slog.Logger, observer DecisionObserver) *Gate {
	return &Gate{loader: loader, logger: logger, observer: observer}
}

const (
	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden"
	msgOutOfScope   = "Forbidden - Not in your assigned scope"
	msgUnavailable  = "Service temporarily unavailable. Please try again."
)

// Outcome labels reported to the decision observer.
const (
	outcomeAllowed      = "allowed"
	outcomeUnauthorized = "unauthorized"
	outcomeForbidden    = "forbidden"
	outcomeUnavailable  = "unavailable"
)

// Authorize runs the fixed authorization sequence: identity, role/profile
// load, section check, resource/action check, entity scope checks. Every step
// short-circuits; no step runs on an unauthenticated identity and no scope
// check runs before the role checks pass. Failures are terminal for the
// request and never retried.
func (g *Gate) Authorize(ctx context.Context, req Requirement) Decision {
	sess := shared.SessionFromContext(ctx)
	if sess == nil || sess.User() == "" {
		g.observe(outcomeUnauthorized)
		return Decision{Status: http.StatusUnauthorized, Message: msgUnauthorized, Reason: "no authenticated identity"}
	}
	userID := sess.User()

	actor, loadErr := g.loader.LoadActor(ctx, userID)
	if loadErr != nil {
		// The specific code is for operators only; leaking it to the
		// client would reveal account existence and configuration.
		g.warn("actor load failed", userID, slog.String("code", string(loadErr.Code)), slog.Any("error", loadErr.Err))
		if loadErr.Transient() {
			g.observe(outcomeUnavailable)
			return Decision{Status: http.StatusServiceUnavailable, Message: msgUnavailable, Reason: string(loadErr.Code)}
		}
		g.observe(outcomeForbidden)
		return Decision{Status: http.StatusForbidden, Message: msgForbidden, Reason: string(loadErr.Code)}
	}
	if !actor.Profile.IsActive {
		g.warn("inactive profile", userID)
		g.observe(outcomeForbidden)
		return Decision{Status: http.StatusForbidden, Message: msgForbidden, Reason: "profile inactive"}
	}

	if req.Section != "" && !CanAccessSection(actor.Config, req.Section) {
		g.warn("section denied", userID, slog.String("section", string(req.Section)))
		g.observe(outcomeForbidden)
		return Decision{Status: http.StatusForbidden, Message: msgForbidden, Reason: fmt.Sprintf("section %s denied for role %s", req.Section, actor.Role)}
	}

	if req.Resource != "" && !HasPermission(actor.Config, req.Resource, req.Action) {
		g.warn("permission denied", userID,
			slog.String("resource", string(req.Resource)),
			slog.String("action", string(req.Action)))
		g.observe(outcomeForbidden)
		return Decision{Status: http.StatusForbidden, Message: msgForbidden, Reason: fmt.Sprintf("%s:%s denied for role %s", req.Resource, req.Action, actor.Role)}
	}

	for _, check := range req.Scopes {
		if !InScope(actor, check.Level, check.ID) {
			g.warn("scope denied", userID,
				slog.String("level", string(check.Level)),
				slog.String("entity", check.ID))
			g.observe(outcomeForbidden)
			return Decision{
				Status:  http.StatusForbidden,
				Message: msgOutOfScope,
				Reason:  fmt.Sprintf("%s %s outside assigned scope", check.Level, check.ID),
			}
		}
	}

	g.observe(outcomeAllowed)
	return Decision{OK: true, Status: http.StatusOK, Actor: actor}
}

func (g *Gate) observe(outcome string) {
	if g.observer != nil {
		g.observer.ObserveAuthzDecision(outcome)
	}
}

func (g *Gate) warn(msg, userID string, attrs ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Warn(msg, append([]any{slog.String("user_id", userID)}, attrs...)...)
}
