package entities

import "time"

// Candidate is a per-election roster entry. Ids are sequential from 1 within
// the owning election. Candidates are never deleted; deactivation only clears
// the Active flag, which gates vote eligibility.
type Candidate struct {
	ElectionID  uint64
	CandidateID uint64
	Name        string
	DetailsRef  string
	VoteCount   uint64
	Active      bool
	CreatedAt   time.Time
}
