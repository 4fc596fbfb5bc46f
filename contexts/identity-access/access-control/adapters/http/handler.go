package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"suffrage/contexts/identity-access/access-control/application/commands"
	"suffrage/contexts/identity-access/access-control/application/queries"
	"suffrage/contexts/identity-access/access-control/domain/entities"
	httptransport "suffrage/contexts/identity-access/access-control/transport/http"
)

// Handler adapts transport DTOs onto access-control use cases.
type Handler struct {
	Roles         commands.RoleUseCase
	Organizations commands.OrganizationUseCase
	Checks        queries.CheckRoleUseCase
	Logger        *slog.Logger
}

func (h Handler) GrantRoleHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	req httptransport.GrantRoleRequest,
) (httptransport.GrantRoleResponse, error) {
	result, err := h.Roles.Grant(ctx, commands.GrantRoleCommand{
		Caller:    caller,
		Role:      entities.Role(req.Role),
		Principal: req.Principal,
		Now:       now,
	})
	if err != nil {
		return httptransport.GrantRoleResponse{}, err
	}
	return httptransport.GrantRoleResponse{
		Role:          string(result.Grant.Role),
		Principal:     result.Grant.Principal,
		GrantedBy:     result.Grant.GrantedBy,
		AlreadyActive: result.AlreadyActive,
	}, nil
}

func (h Handler) RevokeRoleHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	req httptransport.RevokeRoleRequest,
) (httptransport.RevokeRoleResponse, error) {
	result, err := h.Roles.Revoke(ctx, commands.RevokeRoleCommand{
		Caller:    caller,
		Role:      entities.Role(req.Role),
		Principal: req.Principal,
		Now:       now,
	})
	if err != nil {
		return httptransport.RevokeRoleResponse{}, err
	}
	return httptransport.RevokeRoleResponse{
		Role:      req.Role,
		Principal: req.Principal,
		Revoked:   result.Revoked,
	}, nil
}

func (h Handler) CheckRoleHandler(
	ctx context.Context,
	role string,
	principal string,
) (httptransport.CheckRoleResponse, error) {
	granted, err := h.Checks.HasRole(ctx, entities.Role(role), principal)
	if err != nil {
		return httptransport.CheckRoleResponse{}, err
	}
	return httptransport.CheckRoleResponse{
		Role:      role,
		Principal: principal,
		Granted:   granted,
	}, nil
}

func (h Handler) ListRolesHandler(ctx context.Context, principal string) (httptransport.ListRolesResponse, error) {
	grants, err := h.Checks.ListRoles(ctx, principal)
	if err != nil {
		return httptransport.ListRolesResponse{}, err
	}
	items := make([]httptransport.RoleGrantItem, 0, len(grants))
	for _, grant := range grants {
		items = append(items, httptransport.RoleGrantItem{
			Role:      string(grant.Role),
			GrantedBy: grant.GrantedBy,
			GrantedAt: grant.GrantedAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListRolesResponse{
		Principal: principal,
		Roles:     items,
	}, nil
}

func (h Handler) CreateOrganizationHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	req httptransport.CreateOrganizationRequest,
) (httptransport.OrganizationResponse, error) {
	org, err := h.Organizations.Create(ctx, commands.CreateOrganizationCommand{
		Caller: caller,
		OrgID:  req.OrgID,
		Name:   req.Name,
		Now:    now,
	})
	if err != nil {
		return httptransport.OrganizationResponse{}, err
	}
	return httptransport.OrganizationResponse{
		OrgID:     org.OrgID,
		Name:      org.Name,
		CreatedBy: org.CreatedBy,
	}, nil
}
