package organizations

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/retailpulse/retailpulse/internal/shared"
)

// Service wraps organization business rules.
type Service struct {
	repo     Repository
	audit    shared.AuditRecorder
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, audit shared.AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit, validate: validator.New()}
}

func (s *Service) List(ctx context.Context) ([]Organization, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Organization, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actorID string, input CreateInput) (Organization, error) {
	input.Name = shared.SanitizeText(input.Name)
	if err := s.validate.Struct(input); err != nil {
		return Organization{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	org, err := s.repo.Create(ctx, input.Name)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionCreate, "organization", "", err.Error())
		}
		return Organization{}, err
	}
	if s.audit != nil {
		s.audit.LogCreate(ctx, actorID, "organization", org.ID, map[string]any{"name": org.Name})
	}
	return org, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, input UpdateInput) (Organization, error) {
	if input.Name == nil {
		return Organization{}, fmt.Errorf("%w: nothing to update", shared.ErrValidation)
	}
	name := shared.SanitizeText(*input.Name)
	input.Name = &name
	if err := s.validate.Struct(input); err != nil {
		return Organization{}, fmt.Errorf("%w: invalid name", shared.ErrValidation)
	}
	org, err := s.repo.Update(ctx, id, name)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionUpdate, "organization", id, err.Error())
		}
		return Organization{}, err
	}
	if s.audit != nil {
		s.audit.LogUpdate(ctx, actorID, "organization", org.ID, map[string]any{"name": org.Name})
	}
	return org, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionDelete, "organization", id, err.Error())
		}
		return err
	}
	if s.audit != nil {
		s.audit.LogDelete(ctx, actorID, "organization", id, nil)
	}
	return nil
}
