package categories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpulse/retailpulse/internal/admin/categories"
	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
)

type fakeRepo struct {
	byID map[string]categories.Category

	listAllowed [][]string
	created     []string
	renamed     map[string]string
	deleted     []string
	createErr   error
}

func newFakeRepo(seed ...categories.Category) *fakeRepo {
	r := &fakeRepo{byID: map[string]categories.Category{}, renamed: map[string]string{}}
	for _, c := range seed {
		r.byID[c.ID] = c
	}
	return r
}

func (r *fakeRepo) List(ctx context.Context, allowedIDs []string) ([]categories.Category, error) {
	r.listAllowed = append(r.listAllowed, allowedIDs)
	return nil, nil
}

func (r *fakeRepo) Get(ctx context.Context, id string) (categories.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return categories.Category{}, shared.ErrNotFound
	}
	return c, nil
}

func (r *fakeRepo) Create(ctx context.Context, name string) (categories.Category, error) {
	if r.createErr != nil {
		return categories.Category{}, r.createErr
	}
	c := categories.Category{ID: "cat-new", Name: name}
	r.created = append(r.created, name)
	r.byID[c.ID] = c
	return c, nil
}

func (r *fakeRepo) Update(ctx context.Context, id, name string) (categories.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return categories.Category{}, shared.ErrNotFound
	}
	c.Name = name
	r.byID[id] = c
	r.renamed[id] = name
	return c, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func plannerActor(allowedCategories []string) *rbac.Actor {
	return &rbac.Actor{
		UserID: "ip-1",
		Role:   rbac.RoleInventoryPlanner,
		Config: rbac.Lookup(rbac.RoleInventoryPlanner),
		Profile: rbac.Profile{
			UserID:            "ip-1",
			AllowedCategories: allowedCategories,
			IsActive:          true,
		},
	}
}

func saActor() *rbac.Actor {
	return &rbac.Actor{
		UserID:  "sa-1",
		Role:    rbac.RoleSuperAdmin,
		Config:  rbac.Lookup(rbac.RoleSuperAdmin),
		Profile: rbac.Profile{UserID: "sa-1", IsActive: true},
	}
}

func TestListScopedToAssignedCategories(t *testing.T) {
	repo := newFakeRepo()
	svc := categories.NewService(repo, nil)

	_, err := svc.List(context.Background(), plannerActor([]string{"cat-1"}))
	require.NoError(t, err)
	_, err = svc.List(context.Background(), saActor())
	require.NoError(t, err)

	require.Len(t, repo.listAllowed, 2)
	assert.Equal(t, []string{"cat-1"}, repo.listAllowed[0])
	assert.Nil(t, repo.listAllowed[1])
}

func TestCreate(t *testing.T) {
	repo := newFakeRepo()
	svc := categories.NewService(repo, nil)

	created, err := svc.Create(context.Background(), "sa-1", categories.CreateInput{
		Name: " <script>alert(1)</script>Dairy ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dairy", created.Name)

	_, err = svc.Create(context.Background(), "sa-1", categories.CreateInput{Name: ""})
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, []string{"Dairy"}, repo.created)
}

func TestCreateDuplicateName(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = shared.ErrDuplicate
	svc := categories.NewService(repo, nil)

	_, err := svc.Create(context.Background(), "sa-1", categories.CreateInput{Name: "Dairy"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdate(t *testing.T) {
	repo := newFakeRepo(categories.Category{ID: "cat-1", Name: "Dairy"})
	svc := categories.NewService(repo, nil)

	name := "Dairy & Eggs"
	updated, err := svc.Update(context.Background(), "sa-1", "cat-1", categories.UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Dairy & Eggs", updated.Name)

	_, err = svc.Update(context.Background(), "sa-1", "cat-1", categories.UpdateInput{})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo(categories.Category{ID: "cat-1", Name: "Dairy"})
	svc := categories.NewService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "sa-1", "cat-1"))
	assert.Equal(t, []string{"cat-1"}, repo.deleted)
	assert.ErrorIs(t, svc.Delete(context.Background(), "sa-1", "cat-404"), shared.ErrNotFound)
}
