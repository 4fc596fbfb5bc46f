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

// CastVoteCommand is the write-model input for ballot casting.
type CastVoteCommand struct {
	Voter       string
	ElectionID  uint64
	CandidateID uint64
	Now         time.Time
}

// CastVoteResult returns the issued receipt. The candidate choice is not
// echoed back beyond what the caller already supplied.
type CastVoteResult struct {
	ElectionID uint64
	Voter      string
	Receipt    string
	CastAt     time.Time
}

// BallotUseCase enforces the cast-vote gauntlet. Every check runs before any
// mutation; the commit applies the ballot, the candidate tally, and the
// election total as one indivisible unit.
type BallotUseCase struct {
	Elections     ports.ElectionRepository
	Candidates    ports.CandidateRepository
	Registrations ports.RegistrationRepository
	Ballots       ports.BallotRepository
	Outbox        ports.OutboxWriter
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// Cast validates, then commits exactly one ballot per (election, voter) pair.
// Repeating after success fails with ErrAlreadyVoted rather than duplicating.
func (uc BallotUseCase) Cast(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voter := strings.TrimSpace(cmd.Voter)
	logger.Info("vote cast started",
		"event", "vote_cast_started",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"voter", voter,
	)
	if voter == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidInput
	}

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !election.VotingOpen(cmd.Now) {
		return CastVoteResult{}, domainerrors.ErrInvalidState
	}

	if _, voted, err := uc.Ballots.GetBallot(ctx, cmd.ElectionID, voter); err != nil {
		return CastVoteResult{}, err
	} else if voted {
		logger.Warn("duplicate vote rejected",
			"event", "vote_cast_duplicate",
			"module", "election-lifecycle/election-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"voter", voter,
		)
		return CastVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	candidate, err := uc.Candidates.GetCandidate(ctx, cmd.ElectionID, cmd.CandidateID)
	if err != nil {
		return CastVoteResult{}, domainerrors.ErrInvalidCandidate
	}
	if !candidate.Active {
		return CastVoteResult{}, domainerrors.ErrInvalidCandidate
	}

	if election.Type != entities.TypePublic {
		registration, found, err := uc.Registrations.GetRegistration(ctx, cmd.ElectionID, voter)
		if err != nil {
			return CastVoteResult{}, err
		}
		if !found || registration.Status != entities.RegistrationApproved {
			return CastVoteResult{}, domainerrors.ErrNotEligible
		}
	}

	castAt := cmd.Now.UTC()
	ballot := entities.Ballot{
		ElectionID: election.ElectionID,
		Voter:      voter,
		Receipt:    services.VoteReceipt(election.ElectionID, voter, candidate.CandidateID, castAt),
		CastAt:     castAt,
	}
	candidate.VoteCount++
	election.TotalVotes++
	election.UpdatedAt = castAt
	if err := uc.Ballots.CommitBallot(ctx, ballot, candidate, election); err != nil {
		return CastVoteResult{}, err
	}
	if err := appendElectionEvent(ctx, uc.Outbox, uc.IDGen, "vote.cast", election.ElectionID, cmd.Now, map[string]any{
		"election_id": election.ElectionID,
		"voter":       voter,
		"total_votes": election.TotalVotes,
	}); err != nil {
		return CastVoteResult{}, err
	}
	logger.Info("vote cast",
		"event", "vote_cast",
		"module", "election-lifecycle/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"voter", voter,
		"total_votes", election.TotalVotes,
	)
	return CastVoteResult{
		ElectionID: election.ElectionID,
		Voter:      voter,
		Receipt:    ballot.Receipt,
		CastAt:     castAt,
	}, nil
}
