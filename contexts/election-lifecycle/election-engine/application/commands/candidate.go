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

// AddCandidateCommand appends a candidate to a draft election's roster.
type AddCandidateCommand struct {
	Principal  string
	ElectionID uint64
	Name       string
	DetailsRef string
	Now        time.Time
}

// DeactivateCandidateCommand clears a candidate's active flag while the
// election is still in draft. Candidates are never removed from the roster.
type DeactivateCandidateCommand struct {
	Principal   string
	ElectionID  uint64
	CandidateID uint64
	Now         time.Time
}

// CandidateUseCase owns pre-launch roster mutations.
type CandidateUseCase struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Access     ports.AccessDirectory
	Outbox     ports.OutboxWriter
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Add appends a candidate under the next sequential id and returns the stored
// record. Rosters are mutable only while the election is in draft.
func (uc CandidateUseCase) Add(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	principal := strings.TrimSpace(cmd.Principal)
	logger.Info("candidate add started",
		"event", "candidate_add_started",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"principal", principal,
	)

	if strings.TrimSpace(cmd.Name) == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidInput
	}

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Candidate{}, err
	}
	manager, err := isElectionManager(ctx, uc.Access, election, principal)
	if err != nil {
		return entities.Candidate{}, err
	}
	if !manager {
		logger.Warn("candidate add denied",
			"event", "candidate_add_denied",
			"module", "election-lifecycle/election-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"principal", principal,
		)
		return entities.Candidate{}, domainerrors.ErrPermissionDenied
	}
	if election.Status != entities.StatusDraft {
		return entities.Candidate{}, domainerrors.ErrInvalidState
	}

	candidate := entities.Candidate{
		ElectionID: election.ElectionID,
		Name:       strings.TrimSpace(cmd.Name),
		DetailsRef: strings.TrimSpace(cmd.DetailsRef),
		Active:     true,
		CreatedAt:  cmd.Now.UTC(),
	}
	stored, err := uc.Candidates.AddCandidate(ctx, candidate)
	if err != nil {
		return entities.Candidate{}, err
	}
	if err := appendElectionEvent(ctx, uc.Outbox, uc.IDGen, "candidate.added", election.ElectionID, cmd.Now, map[string]any{
		"election_id":  election.ElectionID,
		"candidate_id": stored.CandidateID,
		"name":         stored.Name,
		"added_by":     principal,
	}); err != nil {
		return entities.Candidate{}, err
	}
	logger.Info("candidate added",
		"event", "candidate_added",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"candidate_id", stored.CandidateID,
	)
	return stored, nil
}

// Deactivate flags a candidate inactive. Inactive candidates stay on the
// roster but no longer accept ballots.
func (uc CandidateUseCase) Deactivate(ctx context.Context, cmd DeactivateCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	principal := strings.TrimSpace(cmd.Principal)

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Candidate{}, err
	}
	manager, err := isElectionManager(ctx, uc.Access, election, principal)
	if err != nil {
		return entities.Candidate{}, err
	}
	if !manager {
		return entities.Candidate{}, domainerrors.ErrPermissionDenied
	}
	if election.Status != entities.StatusDraft {
		return entities.Candidate{}, domainerrors.ErrInvalidState
	}

	candidate, err := uc.Candidates.GetCandidate(ctx, cmd.ElectionID, cmd.CandidateID)
	if err != nil {
		return entities.Candidate{}, err
	}
	if !candidate.Active {
		return candidate, nil
	}
	candidate.Active = false
	if err := uc.Candidates.SaveCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}
	if err := appendElectionEvent(ctx, uc.Outbox, uc.IDGen, "candidate.deactivated", election.ElectionID, cmd.Now, map[string]any{
		"election_id":    election.ElectionID,
		"candidate_id":   candidate.CandidateID,
		"deactivated_by": principal,
	}); err != nil {
		return entities.Candidate{}, err
	}
	logger.Info("candidate deactivated",
		"event", "candidate_deactivated",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"candidate_id", candidate.CandidateID,
	)
	return candidate, nil
}
