package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
)

// ErrNotInCategories is returned when a product's category, or the target
// category of a move, is outside the actor's assigned categories.
var ErrNotInCategories = errors.New("Forbidden - Product not in your assigned categories")

// Service wraps product business rules. Category scope is enforced here
// because the relevant id is only known after the product row is fetched.
type Service struct {
	repo     Repository
	audit    shared.AuditRecorder
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, audit shared.AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit, validate: validator.New()}
}

// List narrows rows to the actor's category scope.
func (s *Service) List(ctx context.Context, actor *rbac.Actor) ([]Product, error) {
	var allowed []string
	if !actor.IsSuperAdmin() {
		allowed = actor.Profile.AllowedCategories
	}
	return s.repo.List(ctx, allowed)
}

// Get fetches the product and then re-checks its category against the
// actor's scope. The id in the path says nothing about the category, so the
// check cannot happen before the fetch.
func (s *Service) Get(ctx context.Context, actor *rbac.Actor, id string) (Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !rbac.InScope(actor, rbac.ScopeCategory, p.CategoryID) {
		return Product{}, ErrNotInCategories
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, actor *rbac.Actor, input CreateInput) (Product, error) {
	input.Name = shared.SanitizeText(input.Name)
	input.SKU = shared.SanitizeText(input.SKU)
	if err := s.validate.Struct(input); err != nil {
		return Product{}, fmt.Errorf("%w: category_id, sku and name are required", shared.ErrValidation)
	}
	if !rbac.InScope(actor, rbac.ScopeCategory, input.CategoryID) {
		return Product{}, ErrNotInCategories
	}
	p, err := s.repo.Create(ctx, Product{
		CategoryID: input.CategoryID,
		SKU:        input.SKU,
		Name:       input.Name,
	})
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actor.UserID, shared.AuditActionCreate, "product", "", err.Error())
		}
		return Product{}, err
	}
	if s.audit != nil {
		s.audit.LogCreate(ctx, actor.UserID, "product", p.ID, map[string]any{
			"name":        p.Name,
			"sku":         p.SKU,
			"category_id": p.CategoryID,
		})
	}
	return p, nil
}

// Update applies a patch. Both the product's current category and, when the
// patch moves it, the target category must be inside the actor's scope;
// otherwise a caller could escalate access by relocating data.
func (s *Service) Update(ctx context.Context, actor *rbac.Actor, id string, input UpdateInput) (Product, error) {
	if input.CategoryID == nil && input.SKU == nil && input.Name == nil {
		return Product{}, fmt.Errorf("%w: nothing to update", shared.ErrValidation)
	}
	if input.Name != nil {
		name := shared.SanitizeText(*input.Name)
		input.Name = &name
	}
	if input.SKU != nil {
		sku := shared.SanitizeText(*input.SKU)
		input.SKU = &sku
	}
	if err := s.validate.Struct(input); err != nil {
		return Product{}, fmt.Errorf("%w: invalid product patch", shared.ErrValidation)
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !rbac.InScope(actor, rbac.ScopeCategory, current.CategoryID) {
		return Product{}, ErrNotInCategories
	}
	if input.CategoryID != nil && !rbac.InScope(actor, rbac.ScopeCategory, *input.CategoryID) {
		return Product{}, ErrNotInCategories
	}

	next := current
	details := map[string]any{}
	if input.CategoryID != nil {
		next.CategoryID = *input.CategoryID
		details["category_id"] = *input.CategoryID
	}
	if input.SKU != nil {
		next.SKU = *input.SKU
		details["sku"] = *input.SKU
	}
	if input.Name != nil {
		next.Name = *input.Name
		details["name"] = *input.Name
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actor.UserID, shared.AuditActionUpdate, "product", id, err.Error())
		}
		return Product{}, err
	}
	if s.audit != nil {
		s.audit.LogUpdate(ctx, actor.UserID, "product", updated.ID, details)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor *rbac.Actor, id string) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.InScope(actor, rbac.ScopeCategory, current.CategoryID) {
		return ErrNotInCategories
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actor.UserID, shared.AuditActionDelete, "product", id, err.Error())
		}
		return err
	}
	if s.audit != nil {
		s.audit.LogDelete(ctx, actor.UserID, "product", id, map[string]any{"sku": current.SKU})
	}
	return nil
}
