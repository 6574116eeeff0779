package regions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpulse/retailpulse/internal/admin/regions"
	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
)

const (
	orgA     = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	regionA  = "cccccccc-cccc-4ccc-8ccc-cccccccccccc"
	managerA = "dddddddd-dddd-4ddd-8ddd-dddddddddddd"
)

type fakeRepo struct {
	byID map[string]regions.Region

	listAllowed [][]string
	created     []regions.Region
	renamed     map[string]string
	assigned    map[string]string
	deleted     []string
}

func newFakeRepo(seed ...regions.Region) *fakeRepo {
	r := &fakeRepo{
		byID:     map[string]regions.Region{},
		renamed:  map[string]string{},
		assigned: map[string]string{},
	}
	for _, region := range seed {
		r.byID[region.ID] = region
	}
	return r
}

func (r *fakeRepo) List(ctx context.Context, allowedIDs []string) ([]regions.Region, error) {
	r.listAllowed = append(r.listAllowed, allowedIDs)
	return nil, nil
}

func (r *fakeRepo) Get(ctx context.Context, id string) (regions.Region, error) {
	region, ok := r.byID[id]
	if !ok {
		return regions.Region{}, shared.ErrNotFound
	}
	return region, nil
}

func (r *fakeRepo) Create(ctx context.Context, organizationID, name string) (regions.Region, error) {
	region := regions.Region{ID: "region-new", OrganizationID: organizationID, Name: name}
	r.created = append(r.created, region)
	r.byID[region.ID] = region
	return region, nil
}

func (r *fakeRepo) UpdateName(ctx context.Context, id, name string) (regions.Region, error) {
	region, ok := r.byID[id]
	if !ok {
		return regions.Region{}, shared.ErrNotFound
	}
	region.Name = name
	r.byID[id] = region
	r.renamed[id] = name
	return region, nil
}

func (r *fakeRepo) AssignManager(ctx context.Context, id, managerID string) error {
	region, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	region.ManagerID = &managerID
	r.byID[id] = region
	r.assigned[id] = managerID
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func rmActor(allowedRegions []string) *rbac.Actor {
	return &rbac.Actor{
		UserID: "rm-1",
		Role:   rbac.RoleRegionalManager,
		Config: rbac.Lookup(rbac.RoleRegionalManager),
		Profile: rbac.Profile{
			UserID:         "rm-1",
			OrganizationID: orgA,
			AllowedRegions: allowedRegions,
			IsActive:       true,
		},
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

func TestListScopedToAssignedRegions(t *testing.T) {
	repo := newFakeRepo()
	svc := regions.NewService(repo, nil)

	_, err := svc.List(context.Background(), rmActor([]string{regionA}))
	require.NoError(t, err)
	_, err = svc.List(context.Background(), saActor())
	require.NoError(t, err)

	require.Len(t, repo.listAllowed, 2)
	assert.Equal(t, []string{regionA}, repo.listAllowed[0])
	assert.Nil(t, repo.listAllowed[1], "super admin lists unfiltered")
}

func TestCreateSanitizesAndValidates(t *testing.T) {
	repo := newFakeRepo()
	svc := regions.NewService(repo, nil)

	created, err := svc.Create(context.Background(), "sa-1", regions.CreateInput{
		OrganizationID: orgA,
		Name:           "  <b>North</b> East  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "North East", created.Name)
	assert.Equal(t, orgA, created.OrganizationID)

	_, err = svc.Create(context.Background(), "sa-1", regions.CreateInput{Name: "North"})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Len(t, repo.created, 1, "invalid input must not reach the store")
}

func TestUpdateRenames(t *testing.T) {
	repo := newFakeRepo(regions.Region{ID: "region-1", OrganizationID: orgA, Name: "North"})
	svc := regions.NewService(repo, nil)

	name := "North East"
	updated, err := svc.Update(context.Background(), "sa-1", "region-1", regions.UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "North East", updated.Name)
	assert.Equal(t, "North East", repo.renamed["region-1"])
}

func TestUpdateAssignsManager(t *testing.T) {
	repo := newFakeRepo(regions.Region{ID: "region-1", OrganizationID: orgA, Name: "North"})
	svc := regions.NewService(repo, nil)

	manager := managerA
	updated, err := svc.Update(context.Background(), "sa-1", "region-1", regions.UpdateInput{ManagerID: &manager})
	require.NoError(t, err)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, managerA, *updated.ManagerID)
	assert.Equal(t, managerA, repo.assigned["region-1"])
}

func TestUpdateRejectsEmptyAndInvalidPatches(t *testing.T) {
	repo := newFakeRepo(regions.Region{ID: "region-1", OrganizationID: orgA, Name: "North"})
	svc := regions.NewService(repo, nil)

	_, err := svc.Update(context.Background(), "sa-1", "region-1", regions.UpdateInput{})
	assert.ErrorIs(t, err, shared.ErrValidation)

	badManager := "not-a-uuid"
	_, err = svc.Update(context.Background(), "sa-1", "region-1", regions.UpdateInput{ManagerID: &badManager})
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.assigned)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo(regions.Region{ID: "region-1", OrganizationID: orgA, Name: "North"})
	svc := regions.NewService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "sa-1", "region-1"))
	assert.Equal(t, []string{"region-1"}, repo.deleted)

	assert.ErrorIs(t, svc.Delete(context.Background(), "sa-1", "region-404"), shared.ErrNotFound)
}
