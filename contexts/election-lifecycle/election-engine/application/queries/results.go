package queries

import (
	"context"
	"log/slog"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	"suffrage/contexts/election-lifecycle/election-engine/ports"
)

// CandidateTally is one row of the live results board.
type CandidateTally struct {
	CandidateID uint64
	Name        string
	VoteCount   uint64
	Active      bool
}

// ElectionResults is the live (or final) tally of an election. WinnerID is
// zero until the election is finalized.
type ElectionResults struct {
	ElectionID uint64
	Status     entities.Status
	TotalVotes uint64
	WinnerID   uint64
	Tallies    []CandidateTally
}

// ResultsQueries serves tally and results reads.
type ResultsQueries struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Logger     *slog.Logger
}

// Results returns the per-candidate tallies and election totals.
func (q ResultsQueries) Results(ctx context.Context, electionID uint64) (ElectionResults, error) {
	election, err := q.Elections.GetElection(ctx, electionID)
	if err != nil {
		return ElectionResults{}, err
	}
	candidates, err := q.Candidates.ListCandidates(ctx, electionID)
	if err != nil {
		return ElectionResults{}, err
	}
	tallies := make([]CandidateTally, 0, len(candidates))
	for _, candidate := range candidates {
		tallies = append(tallies, CandidateTally{
			CandidateID: candidate.CandidateID,
			Name:        candidate.Name,
			VoteCount:   candidate.VoteCount,
			Active:      candidate.Active,
		})
	}
	return ElectionResults{
		ElectionID: election.ElectionID,
		Status:     election.Status,
		TotalVotes: election.TotalVotes,
		WinnerID:   election.WinnerID,
		Tallies:    tallies,
	}, nil
}
