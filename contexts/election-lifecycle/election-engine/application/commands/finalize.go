package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "suffrage/contexts/election-lifecycle/election-engine/application"
	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	domainerrors "suffrage/contexts/election-lifecycle/election-engine/domain/errors"
	"suffrage/contexts/election-lifecycle/election-engine/domain/services"
	"suffrage/contexts/election-lifecycle/election-engine/ports"
)

// FinalizeCommand seals an ended election and records its winner.
type FinalizeCommand struct {
	Principal  string
	ElectionID uint64
	Now        time.Time
}

// FinalizeResult reports the sealed election and winner. WinnerID zero means
// no votes were cast; the finalization still succeeds.
type FinalizeResult struct {
	Election entities.Election
	WinnerID uint64
}

// FinalizeUseCase computes the winner and performs the terminal transition.
type FinalizeUseCase struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Access     ports.AccessDirectory
	Outbox     ports.OutboxWriter
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Finalize is a one-way door: only an ended election may be sealed, and a
// second call fails with ErrAlreadyFinalized leaving the winner untouched.
func (uc FinalizeUseCase) Finalize(ctx context.Context, cmd FinalizeCommand) (FinalizeResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	principal := strings.TrimSpace(cmd.Principal)
	logger.Info("election finalize started",
		"event", "election_finalize_started",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"principal", principal,
	)

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return FinalizeResult{}, err
	}
	manager, err := isElectionManager(ctx, uc.Access, election, principal)
	if err != nil {
		return FinalizeResult{}, err
	}
	if !manager {
		logger.Warn("election finalize denied",
			"event", "election_finalize_denied",
			"module", "election-lifecycle/election-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"principal", principal,
		)
		return FinalizeResult{}, domainerrors.ErrPermissionDenied
	}
	if election.Status == entities.StatusFinalized {
		return FinalizeResult{}, domainerrors.ErrAlreadyFinalized
	}
	if election.Status != entities.StatusEnded {
		return FinalizeResult{}, domainerrors.ErrInvalidState
	}

	candidates, err := uc.Candidates.ListCandidates(ctx, election.ElectionID)
	if err != nil {
		return FinalizeResult{}, err
	}
	winnerID := services.Winner(candidates)

	election.Status = entities.StatusFinalized
	election.WinnerID = winnerID
	election.UpdatedAt = cmd.Now.UTC()
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return FinalizeResult{}, err
	}
	if err := appendElectionEvent(ctx, uc.Outbox, uc.IDGen, "election.finalized", election.ElectionID, cmd.Now, map[string]any{
		"election_id":  election.ElectionID,
		"winner_id":    winnerID,
		"total_votes":  election.TotalVotes,
		"finalized_by": principal,
	}); err != nil {
		return FinalizeResult{}, err
	}
	logger.Info("election finalized",
		"event", "election_finalized",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"winner_id", winnerID,
		"total_votes", election.TotalVotes,
	)
	return FinalizeResult{
		Election: election,
		WinnerID: winnerID,
	}, nil
}
