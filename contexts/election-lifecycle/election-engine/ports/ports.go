package ports

import (
	"context"
	"time"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	contractsv1 "suffrage/contracts/gen/events/v1"
)

// ElectionRepository owns election records and their id sequence. Creation
// assigns the next sequential id (1-based, never reused) and returns the
// stored record.
type ElectionRepository interface {
	CreateElection(ctx context.Context, election entities.Election) (entities.Election, error)
	GetElection(ctx context.Context, electionID uint64) (entities.Election, error)
	SaveElection(ctx context.Context, election entities.Election) error
	ListElections(ctx context.Context) ([]entities.Election, error)
}

// CandidateRepository owns per-election rosters. AddCandidate assigns the next
// sequential candidate id within the election (1-based) and returns the stored
// record.
type CandidateRepository interface {
	AddCandidate(ctx context.Context, candidate entities.Candidate) (entities.Candidate, error)
	GetCandidate(ctx context.Context, electionID uint64, candidateID uint64) (entities.Candidate, error)
	ListCandidates(ctx context.Context, electionID uint64) ([]entities.Candidate, error)
	SaveCandidate(ctx context.Context, candidate entities.Candidate) error
	CountCandidates(ctx context.Context, electionID uint64) (uint64, error)
}

// RegistrationRepository owns voter applications keyed by (election, voter).
type RegistrationRepository interface {
	GetRegistration(ctx context.Context, electionID uint64, voter string) (entities.Registration, bool, error)
	SaveRegistration(ctx context.Context, registration entities.Registration) error
	ListRegistrations(ctx context.Context, electionID uint64) ([]entities.Registration, error)
}

// BallotRepository owns cast markers and receipts. CommitBallot applies the
// ballot, the incremented candidate count, and the incremented election total
// as one atomic unit; on error no partial state may remain visible.
type BallotRepository interface {
	GetBallot(ctx context.Context, electionID uint64, voter string) (entities.Ballot, bool, error)
	CommitBallot(ctx context.Context, ballot entities.Ballot, candidate entities.Candidate, election entities.Election) error
}

// AccessDirectory answers role and organization questions owned by the
// identity context. The engine consults it before every gated mutation.
type AccessDirectory interface {
	HasRole(ctx context.Context, role string, principal string) (bool, error)
	OrganizationExists(ctx context.Context, orgID string) (bool, error)
}

// Clock abstracts current time for worker scheduling. Lifecycle decisions use
// the caller-supplied logical timestamp, never this clock.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts event/outbox identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// OutboxWriter appends event envelopes inside the same commit as state changes.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher pushes relayed envelopes onto the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
