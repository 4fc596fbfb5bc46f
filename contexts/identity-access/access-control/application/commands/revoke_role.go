package commands

import (
	"context"
	"strings"
	"time"

	application "suffrage/contexts/identity-access/access-control/application"
	"suffrage/contexts/identity-access/access-control/domain/entities"
	domainerrors "suffrage/contexts/identity-access/access-control/domain/errors"
)

// RevokeRoleCommand contains transport-agnostic input for role revocation.
type RevokeRoleCommand struct {
	Caller    string
	Role      entities.Role
	Principal string
	Now       time.Time
}

// RevokeRoleResult reports whether a grant was actually removed.
type RevokeRoleResult struct {
	Revoked bool
}

// Revoke removes a role from a principal. Revoking an unheld role is a no-op.
// A super admin cannot strip super_admin from itself, which keeps the engine
// from ever losing its last administrative principal.
func (uc RoleUseCase) Revoke(ctx context.Context, cmd RevokeRoleCommand) (RevokeRoleResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	principal := strings.TrimSpace(cmd.Principal)
	logger.Info("role revoke started",
		"event", "access_role_revoke_started",
		"module", "identity-access/access-control",
		"layer", "application",
		"caller", caller,
		"principal", principal,
		"role", string(cmd.Role),
	)
	if caller == "" || principal == "" {
		return RevokeRoleResult{}, domainerrors.ErrInvalidInput
	}
	if !cmd.Role.Valid() {
		return RevokeRoleResult{}, domainerrors.ErrInvalidRole
	}
	if err := uc.requireSuperAdmin(ctx, caller); err != nil {
		logger.Warn("role revoke denied",
			"event", "access_role_revoke_denied",
			"module", "identity-access/access-control",
			"layer", "application",
			"caller", caller,
			"principal", principal,
			"role", string(cmd.Role),
		)
		return RevokeRoleResult{}, err
	}
	if cmd.Role == entities.RoleSuperAdmin && caller == principal {
		return RevokeRoleResult{}, domainerrors.ErrPermissionDenied
	}

	held, err := uc.Repository.HasRole(ctx, cmd.Role, principal)
	if err != nil {
		return RevokeRoleResult{}, err
	}
	if !held {
		return RevokeRoleResult{Revoked: false}, nil
	}

	if err := uc.Repository.DeleteGrant(ctx, cmd.Role, principal); err != nil {
		return RevokeRoleResult{}, err
	}
	revoked := entities.RoleGrant{
		Role:      cmd.Role,
		Principal: principal,
		GrantedBy: caller,
		GrantedAt: cmd.Now.UTC(),
	}
	if err := uc.appendRoleEvent(ctx, "role.revoked", revoked, cmd.Now); err != nil {
		return RevokeRoleResult{}, err
	}
	logger.Info("role revoked",
		"event", "access_role_revoked",
		"module", "identity-access/access-control",
		"layer", "application",
		"caller", caller,
		"principal", principal,
		"role", string(cmd.Role),
	)
	return RevokeRoleResult{Revoked: true}, nil
}
