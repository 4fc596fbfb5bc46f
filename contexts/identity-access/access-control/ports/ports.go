package ports

import (
	"context"
	"time"

	"suffrage/contexts/identity-access/access-control/domain/entities"
	contractsv1 "suffrage/contracts/gen/events/v1"
)

// Repository is the write/read boundary for role grants and organizations.
type Repository interface {
	HasRole(ctx context.Context, role entities.Role, principal string) (bool, error)
	SaveGrant(ctx context.Context, grant entities.RoleGrant) error
	DeleteGrant(ctx context.Context, role entities.Role, principal string) error
	ListGrants(ctx context.Context, principal string) ([]entities.RoleGrant, error)
	CreateOrganization(ctx context.Context, org entities.Organization) error
	GetOrganization(ctx context.Context, orgID string) (entities.Organization, bool, error)
}

// Clock abstracts current time for deterministic tests.
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
