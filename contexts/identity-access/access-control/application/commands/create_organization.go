package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "suffrage/contexts/identity-access/access-control/application"
	"suffrage/contexts/identity-access/access-control/domain/entities"
	domainerrors "suffrage/contexts/identity-access/access-control/domain/errors"
	"suffrage/contexts/identity-access/access-control/ports"
)

// CreateOrganizationCommand registers a new organization id.
type CreateOrganizationCommand struct {
	Caller string
	OrgID  string
	Name   string
	Now    time.Time
}

// OrganizationUseCase orchestrates the organization registry commands.
type OrganizationUseCase struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Create registers an organization. Only super admins may create one, and a
// duplicate id fails rather than overwriting the existing record.
func (uc OrganizationUseCase) Create(ctx context.Context, cmd CreateOrganizationCommand) (entities.Organization, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	orgID := strings.TrimSpace(cmd.OrgID)
	logger.Info("organization create started",
		"event", "access_org_create_started",
		"module", "identity-access/access-control",
		"layer", "application",
		"caller", caller,
		"org_id", orgID,
	)
	if caller == "" || orgID == "" || strings.TrimSpace(cmd.Name) == "" {
		return entities.Organization{}, domainerrors.ErrInvalidInput
	}
	isSuper, err := uc.Repository.HasRole(ctx, entities.RoleSuperAdmin, caller)
	if err != nil {
		return entities.Organization{}, err
	}
	if !isSuper {
		logger.Warn("organization create denied",
			"event", "access_org_create_denied",
			"module", "identity-access/access-control",
			"layer", "application",
			"caller", caller,
			"org_id", orgID,
		)
		return entities.Organization{}, domainerrors.ErrPermissionDenied
	}

	org := entities.Organization{
		OrgID:     orgID,
		Name:      strings.TrimSpace(cmd.Name),
		CreatedBy: caller,
		CreatedAt: cmd.Now.UTC(),
	}
	if err := uc.Repository.CreateOrganization(ctx, org); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			logger.Warn("organization already exists",
				"event", "access_org_create_conflict",
				"module", "identity-access/access-control",
				"layer", "application",
				"caller", caller,
				"org_id", orgID,
			)
		}
		return entities.Organization{}, err
	}
	if err := uc.appendOrgEvent(ctx, "organization.created", org, cmd.Now); err != nil {
		return entities.Organization{}, err
	}
	logger.Info("organization created",
		"event", "access_org_created",
		"module", "identity-access/access-control",
		"layer", "application",
		"caller", caller,
		"org_id", orgID,
	)
	return org, nil
}
