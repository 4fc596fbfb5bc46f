package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "suffrage/contexts/identity-access/access-control/application"
	"suffrage/contexts/identity-access/access-control/domain/entities"
	domainerrors "suffrage/contexts/identity-access/access-control/domain/errors"
	"suffrage/contexts/identity-access/access-control/ports"
)

// GrantRoleCommand contains transport-agnostic input for role granting.
// Caller identity and logical time are explicit so the engine stays pure.
type GrantRoleCommand struct {
	Caller    string
	Role      entities.Role
	Principal string
	Now       time.Time
}

// GrantRoleResult reports the resulting grant and whether it already existed.
type GrantRoleResult struct {
	Grant         entities.RoleGrant
	AlreadyActive bool
}

// RoleUseCase orchestrates role grant/revoke commands. Both operations are
// idempotent: granting a held role or revoking an unheld one is a no-op.
type RoleUseCase struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Grant assigns a role to a principal. Only super admins may grant roles.
func (uc RoleUseCase) Grant(ctx context.Context, cmd GrantRoleCommand) (GrantRoleResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	principal := strings.TrimSpace(cmd.Principal)
	logger.Info("role grant started",
		"event", "access_role_grant_started",
		"module", "identity-access/access-control",
		"layer", "application",
		"caller", caller,
		"principal", principal,
		"role", string(cmd.Role),
	)
	if caller == "" || principal == "" {
		return GrantRoleResult{}, domainerrors.ErrInvalidInput
	}
	if !cmd.Role.Valid() {
		return GrantRoleResult{}, domainerrors.ErrInvalidRole
	}
	if err := uc.requireSuperAdmin(ctx, caller); err != nil {
		logger.Warn("role grant denied",
			"event", "access_role_grant_denied",
			"module", "identity-access/access-control",
			"layer", "application",
			"caller", caller,
			"principal", principal,
			"role", string(cmd.Role),
		)
		return GrantRoleResult{}, err
	}

	held, err := uc.Repository.HasRole(ctx, cmd.Role, principal)
	if err != nil {
		return GrantRoleResult{}, err
	}
	if held {
		grants, err := uc.Repository.ListGrants(ctx, principal)
		if err != nil {
			return GrantRoleResult{}, err
		}
		for _, grant := range grants {
			if grant.Role == cmd.Role {
				return GrantRoleResult{Grant: grant, AlreadyActive: true}, nil
			}
		}
		return GrantRoleResult{AlreadyActive: true}, nil
	}

	grant := entities.RoleGrant{
		Role:      cmd.Role,
		Principal: principal,
		GrantedBy: caller,
		GrantedAt: cmd.Now.UTC(),
	}
	if err := uc.Repository.SaveGrant(ctx, grant); err != nil {
		return GrantRoleResult{}, err
	}
	if err := uc.appendRoleEvent(ctx, "role.granted", grant, cmd.Now); err != nil {
		return GrantRoleResult{}, err
	}
	logger.Info("role granted",
		"event", "access_role_granted",
		"module", "identity-access/access-control",
		"layer", "application",
		"caller", caller,
		"principal", principal,
		"role", string(cmd.Role),
	)
	return GrantRoleResult{Grant: grant}, nil
}

func (uc RoleUseCase) requireSuperAdmin(ctx context.Context, caller string) error {
	isSuper, err := uc.Repository.HasRole(ctx, entities.RoleSuperAdmin, caller)
	if err != nil {
		return err
	}
	if !isSuper {
		return domainerrors.ErrPermissionDenied
	}
	return nil
}
