package entities

import "time"

// RegistrationStatus tracks a voter application. The zero value None is the
// implicit state of an unregistered (election, voter) pair and is never stored.
type RegistrationStatus string

const (
	RegistrationNone        RegistrationStatus = "none"
	RegistrationPending     RegistrationStatus = "pending"
	RegistrationApproved    RegistrationStatus = "approved"
	RegistrationRejected    RegistrationStatus = "rejected"
	RegistrationBlacklisted RegistrationStatus = "blacklisted"
)

// ReviewOutcome reports whether the status is a terminal manager decision.
func (s RegistrationStatus) ReviewOutcome() bool {
	switch s {
	case RegistrationApproved, RegistrationRejected, RegistrationBlacklisted:
		return true
	default:
		return false
	}
}

// Registration is a voter application keyed by (election id, voter principal).
// VerificationRef is an opaque content reference the engine never inspects.
type Registration struct {
	ElectionID      uint64
	Voter           string
	Status          RegistrationStatus
	VerificationRef string
	RegisteredAt    time.Time
	ReviewedBy      string
	ReviewedAt      *time.Time
}
