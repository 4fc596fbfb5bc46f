package queries

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	domainerrors "suffrage/contexts/election-lifecycle/election-engine/domain/errors"
	"suffrage/contexts/election-lifecycle/election-engine/ports"
)

// VoterQueries serves per-voter reads: cast status, receipts, registration.
type VoterQueries struct {
	Elections     ports.ElectionRepository
	Registrations ports.RegistrationRepository
	Ballots       ports.BallotRepository
	Logger        *slog.Logger
}

// HasVoted reports whether the voter has cast a ballot in the election.
func (q VoterQueries) HasVoted(ctx context.Context, electionID uint64, voter string) (bool, error) {
	if _, err := q.Elections.GetElection(ctx, electionID); err != nil {
		return false, err
	}
	_, voted, err := q.Ballots.GetBallot(ctx, electionID, strings.TrimSpace(voter))
	return voted, err
}

// VerifyReceipt compares a presented digest against the stored one. It only
// ever answers yes or no; the underlying candidate choice is unrecoverable.
func (q VoterQueries) VerifyReceipt(ctx context.Context, electionID uint64, voter string, receipt string) (bool, error) {
	if _, err := q.Elections.GetElection(ctx, electionID); err != nil {
		return false, err
	}
	ballot, found, err := q.Ballots.GetBallot(ctx, electionID, strings.TrimSpace(voter))
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	presented := strings.TrimSpace(receipt)
	if len(presented) != len(ballot.Receipt) {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(ballot.Receipt)) == 1, nil
}

// RegistrationStatus returns the stored application status, or None for an
// unregistered (election, voter) pair.
func (q VoterQueries) RegistrationStatus(ctx context.Context, electionID uint64, voter string) (entities.RegistrationStatus, error) {
	voter = strings.TrimSpace(voter)
	if voter == "" {
		return entities.RegistrationNone, domainerrors.ErrInvalidInput
	}
	if _, err := q.Elections.GetElection(ctx, electionID); err != nil {
		return entities.RegistrationNone, err
	}
	registration, found, err := q.Registrations.GetRegistration(ctx, electionID, voter)
	if err != nil {
		return entities.RegistrationNone, err
	}
	if !found {
		return entities.RegistrationNone, nil
	}
	return registration.Status, nil
}
