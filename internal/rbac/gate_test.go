package rbac_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
	_ "github.com/retailpulse/retailpulse/testing"
)

// stubLoader returns a canned actor or error and counts invocations.
type stubLoader struct {
	actor *rbac.Actor
	err   *rbac.ActorError
	calls int
}

func (s *stubLoader) LoadActor(ctx context.Context, userID string) (*rbac.Actor, *rbac.ActorError) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.actor, nil
}

func authedContext(userID string) context.Context {
	sess := &shared.Session{}
	sess.SetUser(userID)
	return shared.ContextWithSession(context.Background(), sess)
}

func testGate(loader rbac.ActorLoader) *rbac.Gate {
	return rbac.NewGate(loader, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

// countingObserver tallies outcomes the way the metrics counter does.
type countingObserver struct {
	outcomes map[string]int
}

func (o *countingObserver) ObserveAuthzDecision(outcome string) {
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[outcome]++
}

func buyerActor(profile rbac.Profile) *rbac.Actor {
	return &rbac.Actor{
		UserID:  "user-1",
		Role:    rbac.RoleBuyer,
		Config:  rbac.Lookup(rbac.RoleBuyer),
		Profile: profile,
	}
}

func TestAuthorizeRejectsMissingIdentity(t *testing.T) {
	loader := &stubLoader{}
	gate := testGate(loader)

	dec := gate.Authorize(context.Background(), rbac.Requirement{Section: rbac.SectionOverview})
	assert.False(t, dec.OK)
	assert.Equal(t, http.StatusUnauthorized, dec.Status)
	assert.Equal(t, "Unauthorized", dec.Message)
	assert.Zero(t, loader.calls, "actor load must not run without an identity")

	emptySess := shared.ContextWithSession(context.Background(), &shared.Session{})
	dec = gate.Authorize(emptySess, rbac.Requirement{Section: rbac.SectionOverview})
	assert.Equal(t, http.StatusUnauthorized, dec.Status)
	assert.Zero(t, loader.calls)
}

func TestAuthorizeMissingProfileIsForbidden(t *testing.T) {
	loader := &stubLoader{err: &rbac.ActorError{Code: rbac.CodeProfileNotFound}}
	gate := testGate(loader)

	dec := gate.Authorize(authedContext("user-1"), rbac.Requirement{Section: rbac.SectionOverview})
	assert.Equal(t, http.StatusForbidden, dec.Status)
	assert.Equal(t, "Forbidden", dec.Message)
	assert.Equal(t, string(rbac.CodeProfileNotFound), dec.Reason)
}

func TestAuthorizeUnknownRoleIsForbidden(t *testing.T) {
	loader := &stubLoader{err: &rbac.ActorError{Code: rbac.CodeUnknownRole}}
	gate := testGate(loader)

	dec := gate.Authorize(authedContext("user-1"), rbac.Requirement{Section: rbac.SectionOverview})
	assert.Equal(t, http.StatusForbidden, dec.Status)
	assert.Equal(t, "Forbidden", dec.Message)
}

// Infrastructure trouble answers 503, never a deny the caller could mistake
// for revoked access.
func TestAuthorizeTransientFailureIsUnavailable(t *testing.T) {
	loader := &stubLoader{err: &rbac.ActorError{Code: rbac.CodeSystemError, Err: context.DeadlineExceeded}}
	gate := testGate(loader)

	dec := gate.Authorize(authedContext("user-1"), rbac.Requirement{Section: rbac.SectionOverview})
	assert.Equal(t, http.StatusServiceUnavailable, dec.Status)
	assert.Equal(t, "Service temporarily unavailable. Please try again.", dec.Message)
}

func TestAuthorizeInactiveProfileIsForbidden(t *testing.T) {
	loader := &stubLoader{actor: buyerActor(rbac.Profile{UserID: "user-1", IsActive: false})}
	gate := testGate(loader)

	dec := gate.Authorize(authedContext("user-1"), rbac.Requirement{Section: rbac.SectionOverview})
	assert.Equal(t, http.StatusForbidden, dec.Status)
	assert.Equal(t, "Forbidden", dec.Message)
}

func TestAuthorizeSectionDenied(t *testing.T) {
	loader := &stubLoader{actor: buyerActor(rbac.Profile{UserID: "user-1", IsActive: true})}
	gate := testGate(loader)

	dec := gate.Authorize(authedContext("user-1"), rbac.Requirement{Section: rbac.SectionUserManagement})
	assert.Equal(t, http.StatusForbidden, dec.Status)
	assert.Equal(t, "Forbidden", dec.Message)
}

func TestAuthorizeResourceActionDenied(t *testing.T) {
	loader := &stubLoader{actor: buyerActor(rbac.Profile{UserID: "user-1", IsActive: true})}
	gate := testGate(loader)

	dec := gate.Authorize(authedContext("user-1"), rbac.Requirement{
		Section:  rbac.SectionCategoryManagement,
		Resource: rbac.ResourceProduct,
		Action:   rbac.ActionDelete,
	})
	assert.Equal(t, http.StatusForbidden, dec.Status)
	assert.Equal(t, "Forbidden", dec.Message)
}

// Scope checks run only after the role checks pass, and carry their own
// message so the client can distinguish a scope miss from a role miss.
func TestAuthorizeScopeDenied(t *testing.T) {
	loader := &stubLoader{actor: buyerActor(rbac.Profile{
		UserID:            "user-1",
		AllowedCategories: []string{"cat-1"},
		IsActive:          true,
	})}
	gate := testGate(loader)

	dec := gate.Authorize(authedContext("user-1"), rbac.Requirement{
		Section:  rbac.SectionCategoryManagement,
		Resource: rbac.ResourceProduct,
		Action:   rbac.ActionEdit,
		Scopes:   []rbac.ScopeCheck{{Level: rbac.ScopeCategory, ID: "cat-2"}},
	})
	assert.Equal(t, http.StatusForbidden, dec.Status)
	assert.Equal(t, "Forbidden - Not in your assigned scope", dec.Message)
}

func TestAuthorizeSuccess(t *testing.T) {
	loader := &stubLoader{actor: buyerActor(rbac.Profile{
		UserID:            "user-1",
		AllowedCategories: []string{"cat-1"},
		IsActive:          true,
	})}
	gate := testGate(loader)

	dec := gate.Authorize(authedContext("user-1"), rbac.Requirement{
		Section:  rbac.SectionCategoryManagement,
		Resource: rbac.ResourceProduct,
		Action:   rbac.ActionEdit,
		Scopes:   []rbac.ScopeCheck{{Level: rbac.ScopeCategory, ID: "cat-1"}},
	})
	require.True(t, dec.OK)
	assert.Equal(t, http.StatusOK, dec.Status)
	require.NotNil(t, dec.Actor)
	assert.Equal(t, rbac.RoleBuyer, dec.Actor.Role)
}

// The gate reads the profile on every request, so a role change applies on
// the very next call without any cache invalidation step.
func TestAuthorizeReflectsProfileChangesImmediately(t *testing.T) {
	loader := &stubLoader{actor: buyerActor(rbac.Profile{UserID: "user-1", IsActive: true})}
	gate := testGate(loader)
	req := rbac.Requirement{Section: rbac.SectionUserManagement}

	dec := gate.Authorize(authedContext("user-1"), req)
	assert.Equal(t, http.StatusForbidden, dec.Status)

	loader.actor = &rbac.Actor{
		UserID:  "user-1",
		Role:    rbac.RoleGeneralManager,
		Config:  rbac.Lookup(rbac.RoleGeneralManager),
		Profile: rbac.Profile{UserID: "user-1", IsActive: true},
	}
	dec = gate.Authorize(authedContext("user-1"), req)
	assert.True(t, dec.OK)
	assert.Equal(t, 2, loader.calls)
}

// Every Authorize call reports exactly one outcome to the observer.
func TestAuthorizeReportsOutcomes(t *testing.T) {
	loader := &stubLoader{actor: buyerActor(rbac.Profile{UserID: "user-1", IsActive: true})}
	obs := &countingObserver{}
	gate := rbac.NewGate(loader, slog.New(slog.NewTextHandler(io.Discard, nil)), obs)

	gate.Authorize(context.Background(), rbac.Requirement{Section: rbac.SectionOverview})
	gate.Authorize(authedContext("user-1"), rbac.Requirement{Section: rbac.SectionOverview})
	gate.Authorize(authedContext("user-1"), rbac.Requirement{Section: rbac.SectionUserManagement})

	loader.err = &rbac.ActorError{Code: rbac.CodeSystemError, Err: context.DeadlineExceeded}
	gate.Authorize(authedContext("user-1"), rbac.Requirement{Section: rbac.SectionOverview})

	assert.Equal(t, map[string]int{
		"unauthorized": 1,
		"allowed":      1,
		"forbidden":    1,
		"unavailable":  1,
	}, obs.outcomes)
}

func TestMiddlewareRequire(t *testing.T) {
	loader := &stubLoader{actor: buyerActor(rbac.Profile{UserID: "user-1", IsActive: true})}
	mw := rbac.Middleware{Gate: testGate(loader)}

	var seen *rbac.Actor
	handler := mw.Require(rbac.Requirement{Section: rbac.SectionOverview})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = rbac.ActorFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(authedContext("user-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
}

func TestMiddlewareRequireDenies(t *testing.T) {
	loader := &stubLoader{err: &rbac.ActorError{Code: rbac.CodeNoRoleAssigned}}
	mw := rbac.Middleware{Gate: testGate(loader)}

	handler := mw.RequireSection(rbac.SectionOverview)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run on a denied request")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(authedContext("user-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())
}

func TestActorErrorTransient(t *testing.T) {
	sys := &rbac.ActorError{Code: rbac.CodeSystemError, Err: errors.New("dial tcp: timeout")}
	assert.True(t, sys.Transient())
	assert.False(t, (&rbac.ActorError{Code: rbac.CodeDatabaseError}).Transient())
	assert.False(t, (&rbac.ActorError{Code: rbac.CodeRLSError}).Transient())
}
