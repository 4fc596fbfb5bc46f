package queries

import (
	"context"
	"errors"
	"log/slog"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	domainerrors "suffrage/contexts/election-lifecycle/election-engine/domain/errors"
	"suffrage/contexts/election-lifecycle/election-engine/ports"
)

// ElectionDetails is the read model for a single election.
type ElectionDetails struct {
	Election       entities.Election
	CandidateCount uint64
}

// ElectionQueries serves read-only election and roster lookups. Reads observe
// a consistent snapshot and never see state mid-mutation.
type ElectionQueries struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Logger     *slog.Logger
}

// Details returns the election together with its roster size.
func (q ElectionQueries) Details(ctx context.Context, electionID uint64) (ElectionDetails, error) {
	election, err := q.Elections.GetElection(ctx, electionID)
	if err != nil {
		return ElectionDetails{}, err
	}
	count, err := q.Candidates.CountCandidates(ctx, electionID)
	if err != nil {
		return ElectionDetails{}, err
	}
	return ElectionDetails{
		Election:       election,
		CandidateCount: count,
	}, nil
}

// List returns every election in ascending id order.
func (q ElectionQueries) List(ctx context.Context) ([]entities.Election, error) {
	return q.Elections.ListElections(ctx)
}

// Candidate returns a single roster entry. A candidate id absent from the
// roster is a lookup miss on this path, not a ballot validation failure.
func (q ElectionQueries) Candidate(ctx context.Context, electionID uint64, candidateID uint64) (entities.Candidate, error) {
	if _, err := q.Elections.GetElection(ctx, electionID); err != nil {
		return entities.Candidate{}, err
	}
	candidate, err := q.Candidates.GetCandidate(ctx, electionID, candidateID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCandidate) {
			return entities.Candidate{}, domainerrors.ErrNotFound
		}
		return entities.Candidate{}, err
	}
	return candidate, nil
}

// CandidateList returns the full roster in ascending candidate-id order.
func (q ElectionQueries) CandidateList(ctx context.Context, electionID uint64) ([]entities.Candidate, error) {
	if _, err := q.Elections.GetElection(ctx, electionID); err != nil {
		return nil, err
	}
	return q.Candidates.ListCandidates(ctx, electionID)
}
