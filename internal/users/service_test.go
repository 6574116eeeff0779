package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
	"github.com/retailpulse/retailpulse/internal/users"
)

const (
	orgA    = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	orgB    = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
	regionA = "cccccccc-cccc-4ccc-8ccc-cccccccccccc"
	regionB = "dddddddd-dddd-4ddd-8ddd-dddddddddddd"
)

type fakeRepo struct {
	byID map[string]users.User

	listOrg     []string
	listFilters []users.ListFilters
	created     []users.User
	createdHash []string
	updated     []users.User
	deactivated []string

	updateErr    error
	setActiveErr error
}

func newFakeRepo(seed ...users.User) *fakeRepo {
	r := &fakeRepo{byID: map[string]users.User{}}
	for _, u := range seed {
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeRepo) List(ctx context.Context, organizationID string, filters users.ListFilters) ([]users.User, error) {
	r.listOrg = append(r.listOrg, organizationID)
	r.listFilters = append(r.listFilters, filters)
	return nil, nil
}

func (r *fakeRepo) Get(ctx context.Context, id string) (users.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) Create(ctx context.Context, u users.User, passwordHash string) (users.User, error) {
	u.ID = "user-new"
	u.IsActive = true
	r.created = append(r.created, u)
	r.createdHash = append(r.createdHash, passwordHash)
	r.byID[u.ID] = u
	return u, nil
}

func (r *fakeRepo) Update(ctx context.Context, u users.User) (users.User, error) {
	if r.updateErr != nil {
		return users.User{}, r.updateErr
	}
	r.updated = append(r.updated, u)
	r.byID[u.ID] = u
	return u, nil
}

func (r *fakeRepo) SetActive(ctx context.Context, id string, active bool) error {
	if r.setActiveErr != nil {
		return r.setActiveErr
	}
	u, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	if !active {
		r.deactivated = append(r.deactivated, id)
	}
	u.IsActive = active
	r.byID[id] = u
	return nil
}

// fakeAudit records entries in memory so tests can assert what was written.
type fakeAudit struct {
	entries []shared.AuditEntry
}

func (a *fakeAudit) RecordSafe(ctx context.Context, entry shared.AuditEntry) {
	a.entries = append(a.entries, entry)
}

func (a *fakeAudit) LogCreate(ctx context.Context, actorID, resource, resourceID string, details map[string]any) {
	a.RecordSafe(ctx, shared.AuditEntry{ActorID: actorID, Action: shared.AuditActionCreate, Resource: resource, ResourceID: resourceID, Details: details, Success: true})
}

func (a *fakeAudit) LogUpdate(ctx context.Context, actorID, resource, resourceID string, details map[string]any) {
	a.RecordSafe(ctx, shared.AuditEntry{ActorID: actorID, Action: shared.AuditActionUpdate, Resource: resource, ResourceID: resourceID, Details: details, Success: true})
}

func (a *fakeAudit) LogDelete(ctx context.Context, actorID, resource, resourceID string, details map[string]any) {
	a.RecordSafe(ctx, shared.AuditEntry{ActorID: actorID, Action: shared.AuditActionDelete, Resource: resource, ResourceID: resourceID, Details: details, Success: true})
}

func (a *fakeAudit) LogFailure(ctx context.Context, actorID, action, resource, resourceID, errMessage string) {
	a.RecordSafe(ctx, shared.AuditEntry{ActorID: actorID, Action: action, Resource: resource, ResourceID: resourceID, Success: false, ErrorMessage: errMessage})
}

func gmActor(orgID string, regions ...string) *rbac.Actor {
	return &rbac.Actor{
		UserID:  "gm-1",
		Role:    rbac.RoleGeneralManager,
		Config:  rbac.Lookup(rbac.RoleGeneralManager),
		Profile: rbac.Profile{UserID: "gm-1", OrganizationID: orgID, AllowedRegions: regions, IsActive: true},
	}
}

func saActor() *rbac.Actor {
	return &rbac.Actor{
		UserID:  "sa-1",
		Role:    rbac.RoleSuperAdmin,
		Config:  rbac.Lookup(rbac.RoleSuperAdmin),
		Profile: rbac.Profile{UserID: "sa-1", OrganizationID: orgA, IsActive: true},
	}
}

func TestListRestrictsToOwnOrganization(t *testing.T) {
	repo := newFakeRepo()
	svc := users.NewService(repo, nil)

	_, err := svc.List(context.Background(), gmActor(orgA), users.ListFilters{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), saActor(), users.ListFilters{})
	require.NoError(t, err)

	require.Len(t, repo.listOrg, 2)
	assert.Equal(t, orgA, repo.listOrg[0])
	assert.Empty(t, repo.listOrg[1], "super admin lists across organizations")
}

func TestListNormalizesSearch(t *testing.T) {
	repo := newFakeRepo()
	svc := users.NewService(repo, nil)

	_, err := svc.List(context.Background(), saActor(), users.ListFilters{Search: "  50% Ana_Lyst  "})
	require.NoError(t, err)
	require.Len(t, repo.listFilters, 1)
	// Wildcards escaped so the term matches literally, then case-folded.
	assert.Equal(t, `50\% ana\_lyst`, repo.listFilters[0].Search)
}

func TestListRejectsUnknownFilters(t *testing.T) {
	svc := users.NewService(newFakeRepo(), nil)

	_, err := svc.List(context.Background(), saActor(), users.ListFilters{Role: "wizard"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.List(context.Background(), saActor(), users.ListFilters{Status: "suspended"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetRestrictsToOwnOrganization(t *testing.T) {
	repo := newFakeRepo(
		users.User{ID: "user-a", OrganizationID: orgA},
		users.User{ID: "user-b", OrganizationID: orgB},
	)
	svc := users.NewService(repo, nil)

	_, err := svc.Get(context.Background(), gmActor(orgA), "user-a")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), gmActor(orgA), "user-b")
	assert.ErrorIs(t, err, users.ErrOutsideOrganization)

	_, err = svc.Get(context.Background(), saActor(), "user-b")
	assert.NoError(t, err, "super admin reads across organizations")
}

func TestCreateUser(t *testing.T) {
	repo := newFakeRepo()
	svc := users.NewService(repo, nil)

	created, err := svc.Create(context.Background(), saActor(), users.CreateInput{
		Email:          "  Planner@Example.COM ",
		Password:       "long-enough-password",
		FullName:       "<i>Pat</i> Planner",
		Role:           "inventory_planner",
		OrganizationID: orgA,
		AllowedRegions: []string{regionA},
	})
	require.NoError(t, err)
	assert.Equal(t, "planner@example.com", created.Email)
	assert.Equal(t, "Pat Planner", created.FullName)
	assert.Equal(t, "inventory_planner", created.Role)

	require.Len(t, repo.createdHash, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.createdHash[0]), []byte("long-enough-password")))
}

func TestCreateRejectsBadInput(t *testing.T) {
	repo := newFakeRepo()
	svc := users.NewService(repo, nil)

	cases := map[string]users.CreateInput{
		"short password": {
			Email: "a@b.com", Password: "short", FullName: "Pat",
			Role: "buyer", OrganizationID: orgA,
		},
		"unknown role": {
			Email: "a@b.com", Password: "long-enough-password", FullName: "Pat Planner",
			Role: "wizard", OrganizationID: orgA,
		},
		"bad organization id": {
			Email: "a@b.com", Password: "long-enough-password", FullName: "Pat Planner",
			Role: "buyer", OrganizationID: "org-1",
		},
		"bad scope id": {
			Email: "a@b.com", Password: "long-enough-password", FullName: "Pat Planner",
			Role: "buyer", OrganizationID: orgA, AllowedCategories: []string{"cat-1"},
		},
	}
	for name, input := range cases {
		_, err := svc.Create(context.Background(), saActor(), input)
		assert.ErrorIs(t, err, shared.ErrValidation, name)
	}
	assert.Empty(t, repo.created)
}

func TestCreateGuardsForGeneralManagers(t *testing.T) {
	repo := newFakeRepo()
	svc := users.NewService(repo, nil)

	base := users.CreateInput{
		Email: "a@b.com", Password: "long-enough-password", FullName: "Pat Planner",
		Role: "buyer", OrganizationID: orgA,
	}

	crossOrg := base
	crossOrg.OrganizationID = orgB
	_, err := svc.Create(context.Background(), gmActor(orgA), crossOrg)
	assert.ErrorIs(t, err, users.ErrOutsideOrganization)

	for _, role := range []string{"super_admin", "general_manager"} {
		privileged := base
		privileged.Role = role
		_, err = svc.Create(context.Background(), gmActor(orgA), privileged)
		assert.ErrorIs(t, err, users.ErrPrivilegedRole, role)
	}

	outOfRegion := base
	outOfRegion.AllowedRegions = []string{regionB}
	_, err = svc.Create(context.Background(), gmActor(orgA, regionA), outOfRegion)
	assert.ErrorIs(t, err, users.ErrRegionsOutOfScope)

	assert.Empty(t, repo.created, "no guarded create may reach the repository")

	// Super admins are exempt from all three guards.
	_, err = svc.Create(context.Background(), saActor(), crossOrg)
	assert.NoError(t, err)
}

func TestUpdateAppliesPatch(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "user-1", Email: "a@b.com", FullName: "Pat", Role: "buyer", OrganizationID: orgA, IsActive: true})
	svc := users.NewService(repo, nil)

	role := "regional_manager"
	regionSet := []string{regionA}
	updated, err := svc.Update(context.Background(), saActor(), "user-1", users.UpdateInput{
		Role:           &role,
		AllowedRegions: &regionSet,
	})
	require.NoError(t, err)
	assert.Equal(t, "regional_manager", updated.Role)
	assert.Equal(t, []string{regionA}, updated.AllowedRegions)
	// Untouched fields survive the patch.
	assert.Equal(t, "a@b.com", updated.Email)
}

func TestUpdateRejectsUnknownRole(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "user-1", Role: "buyer", OrganizationID: orgA})
	svc := users.NewService(repo, nil)

	role := "wizard"
	_, err := svc.Update(context.Background(), saActor(), "user-1", users.UpdateInput{Role: &role})
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.updated)
}

func TestUpdateEmptyPatch(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "user-1", Role: "buyer", OrganizationID: orgA})
	svc := users.NewService(repo, nil)

	_, err := svc.Update(context.Background(), saActor(), "user-1", users.UpdateInput{})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateCrossOrganizationPromotionDenied(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "victim", Role: "buyer", OrganizationID: orgB, IsActive: true})
	svc := users.NewService(repo, nil)

	role := "super_admin"
	_, err := svc.Update(context.Background(), gmActor(orgA), "victim", users.UpdateInput{Role: &role})
	assert.ErrorIs(t, err, users.ErrOutsideOrganization)
	assert.Empty(t, repo.updated)
	assert.Equal(t, "buyer", repo.byID["victim"].Role)
}

func TestUpdateCannotAssignPrivilegedRoles(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "user-1", Role: "buyer", OrganizationID: orgA, IsActive: true})
	svc := users.NewService(repo, nil)

	for _, role := range []string{"super_admin", "general_manager"} {
		r := role
		_, err := svc.Update(context.Background(), gmActor(orgA), "user-1", users.UpdateInput{Role: &r})
		assert.ErrorIs(t, err, users.ErrPrivilegedRole, role)
	}
	assert.Empty(t, repo.updated)

	role := "super_admin"
	_, err := svc.Update(context.Background(), saActor(), "user-1", users.UpdateInput{Role: &role})
	assert.NoError(t, err, "super admin may promote")
}

func TestUpdateCannotDeactivateSelf(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "gm-1", Role: "general_manager", OrganizationID: orgA, IsActive: true})
	svc := users.NewService(repo, nil)

	inactive := false
	_, err := svc.Update(context.Background(), gmActor(orgA), "gm-1", users.UpdateInput{IsActive: &inactive})
	assert.ErrorIs(t, err, users.ErrSelfDeactivation)
	assert.True(t, repo.byID["gm-1"].IsActive)
}

func TestUpdateCannotDeactivateProtectedAccounts(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "gm-2", Role: "general_manager", OrganizationID: orgA, IsActive: true})
	svc := users.NewService(repo, nil)

	inactive := false
	_, err := svc.Update(context.Background(), gmActor(orgA), "gm-2", users.UpdateInput{IsActive: &inactive})
	assert.ErrorIs(t, err, users.ErrProtectedAccount)
	assert.True(t, repo.byID["gm-2"].IsActive)
}

func TestUpdateRegionsMustBeWithinOwnSet(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "user-1", Role: "buyer", OrganizationID: orgA, IsActive: true})
	svc := users.NewService(repo, nil)

	regionSet := []string{regionB}
	_, err := svc.Update(context.Background(), gmActor(orgA, regionA), "user-1", users.UpdateInput{AllowedRegions: &regionSet})
	assert.ErrorIs(t, err, users.ErrRegionsOutOfScope)

	// A manager with an unrestricted region set may assign any region.
	_, err = svc.Update(context.Background(), gmActor(orgA), "user-1", users.UpdateInput{AllowedRegions: &regionSet})
	assert.NoError(t, err)
}

func TestDeactivate(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "user-1", Role: "buyer", OrganizationID: orgA, IsActive: true})
	svc := users.NewService(repo, nil)

	require.NoError(t, svc.Deactivate(context.Background(), saActor(), "user-1"))
	assert.Equal(t, []string{"user-1"}, repo.deactivated)
	assert.False(t, repo.byID["user-1"].IsActive)

	assert.ErrorIs(t, svc.Deactivate(context.Background(), saActor(), "user-404"), shared.ErrNotFound)
}

func TestDeactivateSelfDenied(t *testing.T) {
	repo := newFakeRepo(
		users.User{ID: "gm-1", Role: "general_manager", OrganizationID: orgA, IsActive: true},
		users.User{ID: "sa-1", Role: "super_admin", OrganizationID: orgA, IsActive: true},
	)
	svc := users.NewService(repo, nil)

	assert.ErrorIs(t, svc.Deactivate(context.Background(), gmActor(orgA), "gm-1"), users.ErrSelfDeactivation)
	// The guard applies to every role, super admins included.
	assert.ErrorIs(t, svc.Deactivate(context.Background(), saActor(), "sa-1"), users.ErrSelfDeactivation)
	assert.Empty(t, repo.deactivated)
}

func TestDeactivateGuardsForGeneralManagers(t *testing.T) {
	repo := newFakeRepo(
		users.User{ID: "other-org", Role: "buyer", OrganizationID: orgB, IsActive: true},
		users.User{ID: "gm-2", Role: "general_manager", OrganizationID: orgA, IsActive: true},
		users.User{ID: "sa-2", Role: "super_admin", OrganizationID: orgA, IsActive: true},
	)
	svc := users.NewService(repo, nil)

	assert.ErrorIs(t, svc.Deactivate(context.Background(), gmActor(orgA), "other-org"), users.ErrOutsideOrganization)
	assert.ErrorIs(t, svc.Deactivate(context.Background(), gmActor(orgA), "gm-2"), users.ErrProtectedAccount)
	assert.ErrorIs(t, svc.Deactivate(context.Background(), gmActor(orgA), "sa-2"), users.ErrProtectedAccount)
	assert.Empty(t, repo.deactivated)

	require.NoError(t, svc.Deactivate(context.Background(), saActor(), "gm-2"))
	assert.Equal(t, []string{"gm-2"}, repo.deactivated)
}

func TestMutationFailuresAreAudited(t *testing.T) {
	repo := newFakeRepo(users.User{ID: "user-1", Role: "buyer", OrganizationID: orgA, IsActive: true})
	repo.updateErr = errors.New("connection reset")
	repo.setActiveErr = errors.New("connection reset")
	audit := &fakeAudit{}
	svc := users.NewService(repo, audit)

	name := "Pat Planner"
	_, err := svc.Update(context.Background(), saActor(), "user-1", users.UpdateInput{FullName: &name})
	require.Error(t, err)

	err = svc.Deactivate(context.Background(), saActor(), "user-1")
	require.Error(t, err)

	require.Len(t, audit.entries, 2)
	assert.Equal(t, shared.AuditActionUpdate, audit.entries[0].Action)
	assert.False(t, audit.entries[0].Success)
	assert.Equal(t, "connection reset", audit.entries[0].ErrorMessage)
	assert.Equal(t, shared.AuditActionDeactivate, audit.entries[1].Action)
	assert.False(t, audit.entries[1].Success)
}
