package regions

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
)

// Service wraps region business rules.
type Service struct {
	repo     Repository
	audit    shared.AuditRecorder
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, audit shared.AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit, validate: validator.New()}
}

// List narrows rows to the actor's region scope. The gate authorized the
// operation; scoping the result set is the service's job.
func (s *Service) List(ctx context.Context, actor *rbac.Actor) ([]Region, error) {
	var allowed []string
	if !actor.IsSuperAdmin() {
		allowed = actor.Profile.AllowedRegions
	}
	return s.repo.List(ctx, allowed)
}

func (s *Service) Get(ctx context.Context, id string) (Region, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actorID string, input CreateInput) (Region, error) {
	input.Name = shared.SanitizeText(input.Name)
	if err := s.validate.Struct(input); err != nil {
		return Region{}, fmt.Errorf("%w: organization_id and name are required", shared.ErrValidation)
	}
	region, err := s.repo.Create(ctx, input.OrganizationID, input.Name)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionCreate, "region", "", err.Error())
		}
		return Region{}, err
	}
	if s.audit != nil {
		s.audit.LogCreate(ctx, actorID, "region", region.ID, map[string]any{
			"name":            region.Name,
			"organization_id": region.OrganizationID,
		})
	}
	return region, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, input UpdateInput) (Region, error) {
	if input.Name == nil && input.ManagerID == nil {
		return Region{}, fmt.Errorf("%w: nothing to update", shared.ErrValidation)
	}
	if input.Name != nil {
		name := shared.SanitizeText(*input.Name)
		input.Name = &name
	}
	if err := s.validate.Struct(input); err != nil {
		return Region{}, fmt.Errorf("%w: invalid region patch", shared.ErrValidation)
	}

	details := map[string]any{}
	if input.Name != nil {
		if _, err := s.repo.UpdateName(ctx, id, *input.Name); err != nil {
			if s.audit != nil {
				s.audit.LogFailure(ctx, actorID, shared.AuditActionUpdate, "region", id, err.Error())
			}
			return Region{}, err
		}
		details["name"] = *input.Name
	}
	if input.ManagerID != nil {
		if err := s.repo.AssignManager(ctx, id, *input.ManagerID); err != nil {
			if s.audit != nil {
				s.audit.LogFailure(ctx, actorID, shared.AuditActionUpdate, "region", id, err.Error())
			}
			return Region{}, err
		}
		details["manager_id"] = *input.ManagerID
	}

	region, err := s.repo.Get(ctx, id)
	if err != nil {
		return Region{}, err
	}
	if s.audit != nil {
		s.audit.LogUpdate(ctx, actorID, "region", id, details)
	}
	return region, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actorID, shared.AuditActionDelete, "region", id, err.Error())
		}
		return err
	}
	if s.audit != nil {
		s.audit.LogDelete(ctx, actorID, "region", id, nil)
	}
	return nil
}
