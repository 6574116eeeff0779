package categories

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
)

// Service wraps category business rules.
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
func (s *Service) List(ctx context.Context, actor *rbac.Actor) ([]Category, error) {
	var allowed []string
	if !actor.IsSuperAdmin() {
		allowed = actor.Profile.AllowedCategories
	}
	return s.repo.List(ctx, allowed)
}

func (s *Service) Get(ctx context.Context, id string) (Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actorID string, input CreateInput) (Category, error) {
	input.Name = shared.SanitizeText(input.Name)
	if err := s.validate.Struct(input); err != nil {
		return Category{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	cat, err := s.repo.Create(ctx, input.Name)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionCreate, "category", "", err.Error())
		}
		return Category{}, err
	}
	if s.audit != nil {
		s.audit.LogCreate(ctx, actorID, "category", cat.ID, map[string]any{"name": cat.Name})
	}
	return cat, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, input UpdateInput) (Category, error) {
	if input.Name == nil {
		return Category{}, fmt.Errorf("%w: nothing to update", shared.ErrValidation)
	}
	name := shared.SanitizeText(*input.Name)
	input.Name = &name
	if err := s.validate.Struct(input); err != nil {
		return Category{}, fmt.Errorf("%w: invalid name", shared.ErrValidation)
	}
	cat, err := s.repo.Update(ctx, id, name)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionUpdate, "category", id, err.Error())
		}
		return Category{}, err
	}
	if s.audit != nil {
		s.audit.LogUpdate(ctx, actorID, "category", cat.ID, map[string]any{"name": cat.Name})
	}
	return cat, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionDelete, "category", id, err.Error())
		}
		return err
	}
	if s.audit != nil {
		s.audit.LogDelete(ctx, actorID, "category", id, nil)
	}
	return nil
}
