package stores

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
)

// Service wraps store business rules.
type Service struct {
	repo     Repository
	audit    shared.AuditRecorder
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, audit shared.AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit, validate: validator.New()}
}

// List narrows rows to the actor's store scope.
func (s *Service) List(ctx context.Context, actor *rbac.Actor) ([]Store, error) {
	var allowed []string
	if !actor.IsSuperAdmin() {
		allowed = actor.Profile.AllowedStores
	}
	return s.repo.List(ctx, allowed)
}

func (s *Service) Get(ctx context.Context, id string) (Store, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actorID string, input CreateInput) (Store, error) {
	input.Name = shared.SanitizeText(input.Name)
	if err := s.validate.Struct(input); err != nil {
		return Store{}, fmt.Errorf("%w: region_id and name are required", shared.ErrValidation)
	}
	store, err := s.repo.Create(ctx, input.RegionID, input.Name)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionCreate, "store", "", err.Error())
		}
		return Store{}, err
	}
	if s.audit != nil {
		s.audit.LogCreate(ctx, actorID, "store", store.ID, map[string]any{
			"name":      store.Name,
			"region_id": store.RegionID,
		})
	}
	return store, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, input UpdateInput) (Store, error) {
	if input.RegionID != nil {
		return Store{}, fmt.Errorf("%w: region_id", shared.ErrImmutableField)
	}
	if input.Name == nil {
		return Store{}, fmt.Errorf("%w: nothing to update", shared.ErrValidation)
	}
	name := shared.SanitizeText(*input.Name)
	input.Name = &name
	if err := s.validate.Struct(input); err != nil {
		return Store{}, fmt.Errorf("%w: invalid name", shared.ErrValidation)
	}
	store, err := s.repo.UpdateName(ctx, id, name)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionUpdate, "store", id, err.Error())
		}
		return Store{}, err
	}
	if s.audit != nil {
		s.audit.LogUpdate(ctx, actorID, "store", store.ID, map[string]any{"name": store.Name})
	}
	return store, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionDelete, "store", id, err.Error())
		}
		return err
	}
	if s.audit != nil {
		s.audit.LogDelete(ctx, actorID, "store", id, nil)
	}
	return nil
}

// EnableAllProducts bulk-enables every product in the category for the store.
func (s *Service) EnableAllProducts(ctx context.Context, actorID, storeID, categoryID string) (EnablementResult, error) {
	count, err := s.repo.EnableCategoryProducts(ctx, storeID, categoryID)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionActivate, "store_enablement", storeID, err.Error())
		}
		return EnablementResult{}, err
	}
	if s.audit != nil {
		s.audit.RecordSafe(ctx, shared.AuditEntry{
			ActorID:    actorID,
			Action:     shared.AuditActionActivate,
			Resource:   "store_enablement",
			ResourceID: storeID,
			Details: map[string]any{
				"category_id":      categoryID,
				"products_enabled": count,
			},
			Success: true,
		})
	}
	return EnablementResult{StoreID: storeID, CategoryID: categoryID, ProductsEnabled: count}, nil
}
