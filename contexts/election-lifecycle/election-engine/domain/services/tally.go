package services

import (
	"sort"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
)

// Winner returns the candidate id holding the strictly greatest vote count,
// scanning in ascending candidate-id order so an exact tie is won by the
// earliest-registered candidate. Zero means no votes were cast.
func Winner(candidates []entities.Candidate) uint64 {
	sorted := append([]entities.Candidate(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CandidateID < sorted[j].CandidateID
	})

	var winnerID uint64
	var best uint64
	for _, candidate := range sorted {
		if candidate.VoteCount > best {
			best = candidate.VoteCount
			winnerID = candidate.CandidateID
		}
	}
	return winnerID
}
