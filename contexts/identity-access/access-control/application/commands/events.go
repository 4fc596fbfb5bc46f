package commands

import (
	"context"
	"encoding/json"
	"time"

	"suffrage/contexts/identity-access/access-control/domain/entities"
	"suffrage/contexts/identity-access/access-control/ports"
)

// Access events are partitioned by principal so per-principal consumers see
// grants and revokes in order.
func (uc RoleUseCase) appendRoleEvent(
	ctx context.Context,
	eventType string,
	grant entities.RoleGrant,
	occurredAt time.Time,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newAccessEnvelope(eventID, eventType, grant.Principal, occurredAt, map[string]any{
		"role":       string(grant.Role),
		"principal":  grant.Principal,
		"granted_by": grant.GrantedBy,
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc OrganizationUseCase) appendOrgEvent(
	ctx context.Context,
	eventType string,
	org entities.Organization,
	occurredAt time.Time,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newAccessEnvelope(eventID, eventType, org.OrgID, occurredAt, map[string]any{
		"org_id":     org.OrgID,
		"name":       org.Name,
		"created_by": org.CreatedBy,
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func newAccessEnvelope(
	eventID string,
	eventType string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "access-control",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "principal",
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}
