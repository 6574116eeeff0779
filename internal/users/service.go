package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/retailpulse/retailpulse/internal/rbac"
	"github.com/retailpulse/retailpulse/internal/shared"
)

var searchFolder = cases.Fold()

// Guards on user administration. The gate already established the actor holds
// the user-management section; these protect the privilege hierarchy itself:
// a general manager must not be able to mint or unseat accounts above their
// own level, nor reach into another organization.
var (
	// ErrOutsideOrganization is returned when a non-super-admin touches a
	// user outside their own organization.
	ErrOutsideOrganization = errors.New("Forbidden - General Managers can only manage users in their own organization")
	// ErrPrivilegedRole is returned when a non-super-admin tries to hand out
	// the super_admin or general_manager role.
	ErrPrivilegedRole = errors.New("Forbidden - General Managers cannot assign Super Admin or GM roles")
	// ErrProtectedAccount is returned when a non-super-admin tries to
	// deactivate a super_admin or general_manager account.
	ErrProtectedAccount = errors.New("Forbidden - General Managers cannot deactivate Super Admins or other GMs")
	// ErrRegionsOutOfScope is returned when a non-super-admin assigns
	// regions outside their own allowed set.
	ErrRegionsOutOfScope = errors.New("Forbidden - General Managers can only assign regions they have access to")
	// ErrSelfDeactivation is returned when any actor tries to deactivate
	// their own account.
	ErrSelfDeactivation = errors.New("Cannot deactivate your own account")
)

// Service handles user management business logic.
type Service struct {
	repo     RepositoryPort
	audit    shared.AuditRecorder
	validate *validator.Validate
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit, validate: validator.New()}
}

// List returns users visible to the actor. Non-super-admin callers only see
// their own organization. Search input is stripped of markup and ILIKE
// wildcards so it matches literally, and case-folded for consistent matching.
func (s *Service) List(ctx context.Context, actor *rbac.Actor, filters ListFilters) ([]User, error) {
	organizationID := ""
	if !actor.IsSuperAdmin() {
		organizationID = actor.Profile.OrganizationID
	}
	if filters.Search != "" {
		filters.Search = searchFolder.String(shared.NormalizeSearchTerm(filters.Search))
	}
	if filters.Role != "" {
		if _, ok := rbac.ParseRole(filters.Role); !ok {
			return nil, fmt.Errorf("%w: unknown role filter", shared.ErrValidation)
		}
	}
	switch filters.Status {
	case "", "active", "inactive":
	default:
		return nil, fmt.Errorf("%w: status must be active or inactive", shared.ErrValidation)
	}
	return s.repo.List(ctx, organizationID, filters)
}

// Get applies the same organization restriction as List: the id in the path
// must not widen what the caller could enumerate.
func (s *Service) Get(ctx context.Context, actor *rbac.Actor, id string) (User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !actor.IsSuperAdmin() && u.OrganizationID != actor.Profile.OrganizationID {
		return User{}, ErrOutsideOrganization
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, actor *rbac.Actor, input CreateInput) (User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FullName = shared.SanitizeText(input.FullName)
	if err := s.validate.Struct(input); err != nil {
		return User{}, fmt.Errorf("%w: %s", shared.ErrValidation, fieldSummary(err))
	}
	role, ok := rbac.ParseRole(input.Role)
	if !ok {
		return User{}, fmt.Errorf("%w: unknown role", shared.ErrValidation)
	}

	if !actor.IsSuperAdmin() {
		if input.OrganizationID != actor.Profile.OrganizationID {
			return User{}, ErrOutsideOrganization
		}
		if privilegedRole(string(role)) {
			return User{}, ErrPrivilegedRole
		}
		if !regionsWithin(actor.Profile.AllowedRegions, input.AllowedRegions) {
			return User{}, ErrRegionsOutOfScope
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user, err := s.repo.Create(ctx, User{
		Email:             input.Email,
		FullName:          input.FullName,
		Role:              string(role),
		OrganizationID:    input.OrganizationID,
		AllowedRegions:    input.AllowedRegions,
		AllowedStores:     input.AllowedStores,
		AllowedCategories: input.AllowedCategories,
	}, string(hash))
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actor.UserID, shared.AuditActionCreate, "user", "", err.Error())
		}
		return User{}, err
	}
	if s.audit != nil {
		s.audit.LogCreate(ctx, actor.UserID, "user", user.ID, map[string]any{
			"email": user.Email,
			"role":  user.Role,
		})
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, actor *rbac.Actor, id string, input UpdateInput) (User, error) {
	if actor.UserID == id && input.IsActive != nil && !*input.IsActive {
		return User{}, ErrSelfDeactivation
	}
	if input.FullName != nil {
		name := shared.SanitizeText(*input.FullName)
		input.FullName = &name
	}
	if err := s.validate.Struct(input); err != nil {
		return User{}, fmt.Errorf("%w: %s", shared.ErrValidation, fieldSummary(err))
	}
	if input.Role != nil {
		if _, ok := rbac.ParseRole(*input.Role); !ok {
			return User{}, fmt.Errorf("%w: unknown role", shared.ErrValidation)
		}
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	if !actor.IsSuperAdmin() {
		if current.OrganizationID != actor.Profile.OrganizationID {
			return User{}, ErrOutsideOrganization
		}
		if input.Role != nil && *input.Role != current.Role && privilegedRole(*input.Role) {
			return User{}, ErrPrivilegedRole
		}
		if input.IsActive != nil && !*input.IsActive && privilegedRole(current.Role) {
			return User{}, ErrProtectedAccount
		}
		if input.AllowedRegions != nil && !regionsWithin(actor.Profile.AllowedRegions, *input.AllowedRegions) {
			return User{}, ErrRegionsOutOfScope
		}
	}

	details := map[string]any{}
	if input.FullName != nil {
		current.FullName = *input.FullName
		details["full_name"] = *input.FullName
	}
	if input.Role != nil {
		current.Role = *input.Role
		details["role"] = *input.Role
	}
	if input.AllowedRegions != nil {
		current.AllowedRegions = *input.AllowedRegions
		details["allowed_regions"] = *input.AllowedRegions
	}
	if input.AllowedStores != nil {
		current.AllowedStores = *input.AllowedStores
		details["allowed_stores"] = *input.AllowedStores
	}
	if input.AllowedCategories != nil {
		current.AllowedCategories = *input.AllowedCategories
		details["allowed_categories"] = *input.AllowedCategories
	}
	if input.IsActive != nil {
		current.IsActive = *input.IsActive
		details["is_active"] = *input.IsActive
	}
	if len(details) == 0 {
		return User{}, fmt.Errorf("%w: nothing to update", shared.ErrValidation)
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actor.UserID, shared.AuditActionUpdate, "user", id, err.Error())
		}
		return User{}, err
	}
	if s.audit != nil {
		s.audit.LogUpdate(ctx, actor.UserID, "user", updated.ID, details)
	}
	return updated, nil
}

// Deactivate soft-disables an account. The next gate evaluation for that
// user sees the inactive profile and denies the request.
func (s *Service) Deactivate(ctx context.Context, actor *rbac.Actor, id string) error {
	if actor.UserID == id {
		return ErrSelfDeactivation
	}
	if !actor.IsSuperAdmin() {
		target, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if target.OrganizationID != actor.Profile.OrganizationID {
			return ErrOutsideOrganization
		}
		if privilegedRole(target.Role) {
			return ErrProtectedAccount
		}
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if s.audit != nil {
			s.audit.LogFailure(ctx, actor.UserID, shared.AuditActionDeactivate, "user", id, err.Error())
		}
		return err
	}
	if s.audit != nil {
		s.audit.RecordSafe(ctx, shared.AuditEntry{
			ActorID:    actor.UserID,
			Action:     shared.AuditActionDeactivate,
			Resource:   "user",
			ResourceID: id,
			Success:    true,
		})
	}
	return nil
}

// privilegedRole reports whether the role sits at the top of the hierarchy.
// Only super admins may hand these out or deactivate accounts holding them.
func privilegedRole(role string) bool {
	return role == string(rbac.RoleSuperAdmin) || role == string(rbac.RoleGeneralManager)
}

// regionsWithin reports whether every requested region is inside the actor's
// own allowed set. A nil own set means unrestricted within the organization.
func regionsWithin(own, requested []string) bool {
	if own == nil || len(requested) == 0 {
		return true
	}
	allowed := make(map[string]struct{}, len(own))
	for _, r := range own {
		allowed[r] = struct{}{}
	}
	for _, r := range requested {
		if _, ok := allowed[r]; !ok {
			return false
		}
	}
	return true
}

func fieldSummary(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid input"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}
