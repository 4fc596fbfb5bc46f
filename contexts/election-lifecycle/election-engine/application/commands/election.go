package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "suffrage/contexts/election-lifecycle/election-engine/application"
	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	domainerrors "suffrage/contexts/election-lifecycle/election-engine/domain/errors"
	"suffrage/contexts/election-lifecycle/election-engine/ports"
)

// CreateElectionCommand is the write-model input for election creation.
// Principal and logical time are explicit; the engine never reads a clock.
type CreateElectionCommand struct {
	Principal      string
	Title          string
	DescriptionRef string
	MetadataRef    string
	Type           entities.Type
	OrgID          string

	RegistrationStart time.Time
	VotingStart       time.Time
	VotingEnd         time.Time

	Now time.Time
}

// AdvanceStatusCommand requests a forward transition of the lifecycle machine.
type AdvanceStatusCommand struct {
	Principal  string
	ElectionID uint64
	Target     entities.Status
	Now        time.Time
}

// ElectionUseCase owns election creation and the guarded status transitions.
type ElectionUseCase struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Access     ports.AccessDirectory
	Outbox     ports.OutboxWriter
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Create validates timing and authorization, then stores a new draft election
// under the next sequential id.
func (uc ElectionUseCase) Create(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	principal := strings.TrimSpace(cmd.Principal)
	logger.Info("election create started",
		"event", "election_create_started",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"principal", principal,
		"type", string(cmd.Type),
	)

	if principal == "" || strings.TrimSpace(cmd.Title) == "" || !cmd.Type.Valid() {
		return entities.Election{}, domainerrors.ErrInvalidInput
	}

	isAdmin, err := uc.Access.HasRole(ctx, roleElectionAdmin, principal)
	if err != nil {
		return entities.Election{}, err
	}
	if !isAdmin {
		isAdmin, err = uc.Access.HasRole(ctx, roleSuperAdmin, principal)
		if err != nil {
			return entities.Election{}, err
		}
	}
	if !isAdmin {
		logger.Warn("election create denied",
			"event", "election_create_denied",
			"module", "election-lifecycle/election-engine",
			"layer", "application",
			"principal", principal,
		)
		return entities.Election{}, domainerrors.ErrPermissionDenied
	}

	if !cmd.RegistrationStart.Before(cmd.VotingStart) || !cmd.VotingStart.Before(cmd.VotingEnd) {
		return entities.Election{}, domainerrors.ErrInvalidInput
	}
	if cmd.RegistrationStart.Before(cmd.Now) {
		return entities.Election{}, domainerrors.ErrInvalidInput
	}

	orgID := strings.TrimSpace(cmd.OrgID)
	if cmd.Type == entities.TypeOrganization {
		if orgID == "" {
			return entities.Election{}, domainerrors.ErrInvalidInput
		}
		exists, err := uc.Access.OrganizationExists(ctx, orgID)
		if err != nil {
			return entities.Election{}, err
		}
		if !exists {
			return entities.Election{}, domainerrors.ErrInvalidInput
		}
	}

	election := entities.Election{
		Title:             strings.TrimSpace(cmd.Title),
		DescriptionRef:    strings.TrimSpace(cmd.DescriptionRef),
		MetadataRef:       strings.TrimSpace(cmd.MetadataRef),
		Type:              cmd.Type,
		OrgID:             orgID,
		AdminID:           principal,
		Status:            entities.StatusDraft,
		RegistrationStart: cmd.RegistrationStart.UTC(),
		VotingStart:       cmd.VotingStart.UTC(),
		VotingEnd:         cmd.VotingEnd.UTC(),
		CreatedAt:         cmd.Now.UTC(),
		UpdatedAt:         cmd.Now.UTC(),
	}
	stored, err := uc.Elections.CreateElection(ctx, election)
	if err != nil {
		return entities.Election{}, err
	}
	if err := appendElectionEvent(ctx, uc.Outbox, uc.IDGen, "election.created", stored.ElectionID, cmd.Now, map[string]any{
		"election_id": stored.ElectionID,
		"title":       stored.Title,
		"type":        string(stored.Type),
		"admin_id":    stored.AdminID,
		"org_id":      stored.OrgID,
	}); err != nil {
		return entities.Election{}, err
	}
	logger.Info("election created",
		"event", "election_created",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", stored.ElectionID,
		"principal", principal,
		"type", string(stored.Type),
	)
	return stored, nil
}

// Advance moves the election exactly one stage forward when the transition
// guard holds. Ended elections are sealed through Finalize, never here.
func (uc ElectionUseCase) Advance(ctx context.Context, cmd AdvanceStatusCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	principal := strings.TrimSpace(cmd.Principal)
	logger.Info("election advance started",
		"event", "election_advance_started",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"principal", principal,
		"target", string(cmd.Target),
	)

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Election{}, err
	}
	manager, err := isElectionManager(ctx, uc.Access, election, principal)
	if err != nil {
		return entities.Election{}, err
	}
	if !manager {
		logger.Warn("election advance denied",
			"event", "election_advance_denied",
			"module", "election-lifecycle/election-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"principal", principal,
		)
		return entities.Election{}, domainerrors.ErrPermissionDenied
	}

	if err := uc.checkTransition(ctx, election, cmd.Target, cmd.Now); err != nil {
		logger.Warn("election advance rejected",
			"event", "election_advance_rejected",
			"module", "election-lifecycle/election-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"from", string(election.Status),
			"target", string(cmd.Target),
		)
		return entities.Election{}, err
	}

	previous := election.Status
	election.Status = cmd.Target
	election.UpdatedAt = cmd.Now.UTC()
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	if err := appendElectionEvent(ctx, uc.Outbox, uc.IDGen, "election.advanced", election.ElectionID, cmd.Now, map[string]any{
		"election_id": election.ElectionID,
		"from":        string(previous),
		"to":          string(election.Status),
		"advanced_by": principal,
	}); err != nil {
		return entities.Election{}, err
	}
	logger.Info("election advanced",
		"event", "election_advanced",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"from", string(previous),
		"to", string(election.Status),
	)
	return election, nil
}

// checkTransition enforces the forward-only lifecycle: each edge moves exactly
// one stage and its guard must hold. Finalization is not reachable here.
func (uc ElectionUseCase) checkTransition(
	ctx context.Context,
	election entities.Election,
	target entities.Status,
	now time.Time,
) error {
	switch {
	case election.Status == entities.StatusDraft && target == entities.StatusRegistration:
		count, err := uc.Candidates.CountCandidates(ctx, election.ElectionID)
		if err != nil {
			return err
		}
		if count < 1 {
			return domainerrors.ErrInvalidTransition
		}
		return nil
	case election.Status == entities.StatusRegistration && target == entities.StatusActive:
		if now.Before(election.VotingStart) {
			return domainerrors.ErrInvalidTransition
		}
		return nil
	case election.Status == entities.StatusActive && target == entities.StatusEnded:
		if now.Before(election.VotingEnd) {
			return domainerrors.ErrInvalidTransition
		}
		return nil
	default:
		return domainerrors.ErrInvalidTransition
	}
}
