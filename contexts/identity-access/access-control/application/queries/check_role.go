package queries

import (
	"context"
	"log/slog"
	"strings"

	"suffrage/contexts/identity-access/access-control/domain/entities"
	domainerrors "suffrage/contexts/identity-access/access-control/domain/errors"
	"suffrage/contexts/identity-access/access-control/ports"
)

// CheckRoleUseCase answers side-effect-free capability questions for every
// other component of the engine.
type CheckRoleUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// HasRole reports whether the principal currently holds the role.
func (uc CheckRoleUseCase) HasRole(ctx context.Context, role entities.Role, principal string) (bool, error) {
	if !role.Valid() {
		return false, domainerrors.ErrInvalidRole
	}
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return false, domainerrors.ErrInvalidInput
	}
	return uc.Repository.HasRole(ctx, role, principal)
}

// ListRoles returns every active grant for the principal.
func (uc CheckRoleUseCase) ListRoles(ctx context.Context, principal string) ([]entities.RoleGrant, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return uc.Repository.ListGrants(ctx, principal)
}

// OrganizationExists reports whether the organization id is registered.
func (uc CheckRoleUseCase) OrganizationExists(ctx context.Context, orgID string) (bool, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return false, domainerrors.ErrInvalidInput
	}
	_, found, err := uc.Repository.GetOrganization(ctx, orgID)
	return found, err
}
