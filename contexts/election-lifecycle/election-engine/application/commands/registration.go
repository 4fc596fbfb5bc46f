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

// RegisterVoterCommand is a voter's application to participate.
type RegisterVoterCommand struct {
	Voter           string
	ElectionID      uint64
	VerificationRef string
	Now             time.Time
}

// ReviewRegistrationCommand is a manager decision on a pending application.
type ReviewRegistrationCommand struct {
	Principal  string
	ElectionID uint64
	Voter      string
	NewStatus  entities.RegistrationStatus
	Now        time.Time
}

// BulkReviewCommand applies one decision across many voters, best-effort.
type BulkReviewCommand struct {
	Principal  string
	ElectionID uint64
	Voters     []string
	NewStatus  entities.RegistrationStatus
	Now        time.Time
}

// BulkReviewResult reports how many entries were applied versus skipped.
type BulkReviewResult struct {
	Updated int
	Skipped int
}

// RegistrationUseCase owns the voter application lifecycle.
type RegistrationUseCase struct {
	Elections     ports.ElectionRepository
	Registrations ports.RegistrationRepository
	Access        ports.AccessDirectory
	Outbox        ports.OutboxWriter
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// Register files a voter application. The window is the registration stage,
// extended through the active stage for public elections only. Public
// elections auto-approve; a rejected voter may re-apply, a blacklisted voter
// never can.
func (uc RegistrationUseCase) Register(ctx context.Context, cmd RegisterVoterCommand) (entities.Registration, error) {
	logger := application.ResolveLogger(uc.Logger)
	voter := strings.TrimSpace(cmd.Voter)
	logger.Info("voter registration started",
		"event", "registration_started",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"voter", voter,
	)
	if voter == "" {
		return entities.Registration{}, domainerrors.ErrInvalidInput
	}

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Registration{}, err
	}
	openWindow := election.Status == entities.StatusRegistration ||
		(election.Status == entities.StatusActive && election.Type == entities.TypePublic)
	if !openWindow {
		return entities.Registration{}, domainerrors.ErrInvalidState
	}

	existing, found, err := uc.Registrations.GetRegistration(ctx, cmd.ElectionID, voter)
	if err != nil {
		return entities.Registration{}, err
	}
	if found {
		switch existing.Status {
		case entities.RegistrationPending, entities.RegistrationApproved:
			return entities.Registration{}, domainerrors.ErrAlreadyRegistered
		case entities.RegistrationBlacklisted:
			return entities.Registration{}, domainerrors.ErrNotEligible
		}
		// Rejected applications may re-apply.
	}

	status := entities.RegistrationPending
	if election.Type == entities.TypePublic {
		status = entities.RegistrationApproved
	}
	registration := entities.Registration{
		ElectionID:      election.ElectionID,
		Voter:           voter,
		Status:          status,
		VerificationRef: strings.TrimSpace(cmd.VerificationRef),
		RegisteredAt:    cmd.Now.UTC(),
	}
	if err := uc.Registrations.SaveRegistration(ctx, registration); err != nil {
		return entities.Registration{}, err
	}
	if err := appendElectionEvent(ctx, uc.Outbox, uc.IDGen, "registration.submitted", election.ElectionID, cmd.Now, map[string]any{
		"election_id": election.ElectionID,
		"voter":       voter,
		"status":      string(status),
	}); err != nil {
		return entities.Registration{}, err
	}
	logger.Info("voter registered",
		"event", "registration_submitted",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"voter", voter,
		"status", string(status),
	)
	return registration, nil
}

// Review applies a manager decision to a single pending application. Only
// pending applications may transition; reviewing anything else fails.
func (uc RegistrationUseCase) Review(ctx context.Context, cmd ReviewRegistrationCommand) (entities.Registration, error) {
	logger := application.ResolveLogger(uc.Logger)
	principal := strings.TrimSpace(cmd.Principal)
	voter := strings.TrimSpace(cmd.Voter)
	if voter == "" {
		return entities.Registration{}, domainerrors.ErrInvalidInput
	}
	if !cmd.NewStatus.ReviewOutcome() {
		return entities.Registration{}, domainerrors.ErrInvalidInput
	}

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Registration{}, err
	}
	manager, err := isElectionManager(ctx, uc.Access, election, principal)
	if err != nil {
		return entities.Registration{}, err
	}
	if !manager {
		logger.Warn("registration review denied",
			"event", "registration_review_denied",
			"module", "election-lifecycle/election-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"principal", principal,
			"voter", voter,
		)
		return entities.Registration{}, domainerrors.ErrPermissionDenied
	}

	registration, found, err := uc.Registrations.GetRegistration(ctx, cmd.ElectionID, voter)
	if err != nil {
		return entities.Registration{}, err
	}
	if !found || registration.Status != entities.RegistrationPending {
		return entities.Registration{}, domainerrors.ErrInvalidTransition
	}

	reviewedAt := cmd.Now.UTC()
	registration.Status = cmd.NewStatus
	registration.ReviewedBy = principal
	registration.ReviewedAt = &reviewedAt
	if err := uc.Registrations.SaveRegistration(ctx, registration); err != nil {
		return entities.Registration{}, err
	}
	if err := appendElectionEvent(ctx, uc.Outbox, uc.IDGen, "registration.updated", election.ElectionID, cmd.Now, map[string]any{
		"election_id": election.ElectionID,
		"voter":       voter,
		"status":      string(cmd.NewStatus),
		"reviewed_by": principal,
	}); err != nil {
		return entities.Registration{}, err
	}
	logger.Info("registration reviewed",
		"event", "registration_reviewed",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"voter", voter,
		"status", string(cmd.NewStatus),
	)
	return registration, nil
}

// BulkReview applies the same decision across many voters. The batch is
// best-effort by design: entries not currently pending are skipped, not
// failed, and successful entries are not rolled back by later skips.
func (uc RegistrationUseCase) BulkReview(ctx context.Context, cmd BulkReviewCommand) (BulkReviewResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	principal := strings.TrimSpace(cmd.Principal)
	if !cmd.NewStatus.ReviewOutcome() {
		return BulkReviewResult{}, domainerrors.ErrInvalidInput
	}

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return BulkReviewResult{}, err
	}
	manager, err := isElectionManager(ctx, uc.Access, election, principal)
	if err != nil {
		return BulkReviewResult{}, err
	}
	if !manager {
		return BulkReviewResult{}, domainerrors.ErrPermissionDenied
	}

	var result BulkReviewResult
	for _, raw := range cmd.Voters {
		voter := strings.TrimSpace(raw)
		if voter == "" {
			result.Skipped++
			continue
		}
		registration, found, err := uc.Registrations.GetRegistration(ctx, cmd.ElectionID, voter)
		if err != nil {
			return result, err
		}
		if !found || registration.Status != entities.RegistrationPending {
			result.Skipped++
			continue
		}
		reviewedAt := cmd.Now.UTC()
		registration.Status = cmd.NewStatus
		registration.ReviewedBy = principal
		registration.ReviewedAt = &reviewedAt
		if err := uc.Registrations.SaveRegistration(ctx, registration); err != nil {
			return result, err
		}
		if err := appendElectionEvent(ctx, uc.Outbox, uc.IDGen, "registration.updated", election.ElectionID, cmd.Now, map[string]any{
			"election_id": election.ElectionID,
			"voter":       voter,
			"status":      string(cmd.NewStatus),
			"reviewed_by": principal,
			"bulk":        true,
		}); err != nil {
			return result, err
		}
		result.Updated++
	}
	logger.Info("bulk registration review completed",
		"event", "registration_bulk_review_completed",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"status", string(cmd.NewStatus),
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return result, nil
}
