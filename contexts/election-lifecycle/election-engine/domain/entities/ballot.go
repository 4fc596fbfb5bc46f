package entities

import "time"

// Ballot marks that a voter has cast in an election. The chosen candidate is
// deliberately absent: only the one-way receipt digest is retained, so a
// stored ballot can prove participation without revealing the choice.
type Ballot struct {
	ElectionID uint64
	Voter      string
	Receipt    string
	CastAt     time.Time
}
