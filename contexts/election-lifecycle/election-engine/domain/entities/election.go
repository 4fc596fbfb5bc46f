package entities

import "time"

// Status is an election lifecycle stage. Stages only ever advance.
type Status string

const (
	StatusDraft        Status = "draft"
	StatusRegistration Status = "registration"
	StatusActive       Status = "active"
	StatusEnded        Status = "ended"
	StatusFinalized    Status = "finalized"
)

// Ordinal positions the status on the forward-only lifecycle axis.
func (s Status) Ordinal() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusRegistration:
		return 1
	case StatusActive:
		return 2
	case StatusEnded:
		return 3
	case StatusFinalized:
		return 4
	default:
		return -1
	}
}

// Valid reports whether the status is a known lifecycle stage.
func (s Status) Valid() bool {
	return s.Ordinal() >= 0
}

// Type controls voter eligibility rules.
type Type string

const (
	TypePublic       Type = "public"
	TypePrivate      Type = "private"
	TypeOrganization Type = "organization"
)

// Valid reports whether the type is one of the supported eligibility models.
func (t Type) Valid() bool {
	switch t {
	case TypePublic, TypePrivate, TypeOrganization:
		return true
	default:
		return false
	}
}

// Election is the anchor entity the rest of the engine references by id.
// Ids are assigned sequentially from 1 and never reused; timing fields are
// immutable after creation. Title beyond a short string, description, and
// metadata are opaque content references the engine never interprets.
type Election struct {
	ElectionID     uint64
	Title          string
	DescriptionRef string
	MetadataRef    string
	Type           Type
	OrgID          string
	AdminID        string
	Status         Status

	RegistrationStart time.Time
	VotingStart       time.Time
	VotingEnd         time.Time

	TotalVotes uint64
	WinnerID   uint64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ManagedBy reports whether the principal is this election's manager:
// the creating admin or any super admin.
func (e Election) ManagedBy(principal string, isSuperAdmin bool) bool {
	return isSuperAdmin || (principal != "" && principal == e.AdminID)
}

// VotingOpen reports whether ballots are accepted at the supplied logical time.
func (e Election) VotingOpen(now time.Time) bool {
	if e.Status != StatusActive {
		return false
	}
	return !now.Before(e.VotingStart) && !now.After(e.VotingEnd)
}
