package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"suffrage/contexts/identity-access/access-control/domain/entities"
	domainerrors "suffrage/contexts/identity-access/access-control/domain/errors"
	"suffrage/contexts/identity-access/access-control/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is an in-memory adapter implementing the repository, outbox, clock,
// and id generator ports. It is intended for tests and local wiring.
type Store struct {
	mu sync.RWMutex

	grants map[string]entities.RoleGrant
	orgs   map[string]entities.Organization
	outbox map[string]outboxRecord
}

// NewStore builds an in-memory adapter. The bootstrap principal, when
// non-empty, is seeded with super_admin so the engine always starts with one
// administrative identity.
func NewStore(bootstrapPrincipal string) *Store {
	store := &Store{
		grants: make(map[string]entities.RoleGrant),
		orgs:   make(map[string]entities.Organization),
		outbox: make(map[string]outboxRecord),
	}
	bootstrapPrincipal = strings.TrimSpace(bootstrapPrincipal)
	if bootstrapPrincipal != "" {
		store.grants[grantKey(entities.RoleSuperAdmin, bootstrapPrincipal)] = entities.RoleGrant{
			Role:      entities.RoleSuperAdmin,
			Principal: bootstrapPrincipal,
			GrantedBy: bootstrapPrincipal,
			GrantedAt: time.Now().UTC(),
		}
	}
	return store
}

func grantKey(role entities.Role, principal string) string {
	return string(role) + ":" + strings.TrimSpace(principal)
}

func (s *Store) HasRole(_ context.Context, role entities.Role, principal string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grants[grantKey(role, principal)]
	return ok, nil
}

func (s *Store) SaveGrant(_ context.Context, grant entities.RoleGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey(grant.Role, grant.Principal)] = grant
	return nil
}

func (s *Store) DeleteGrant(_ context.Context, role entities.Role, principal string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, grantKey(role, principal))
	return nil
}

func (s *Store) ListGrants(_ context.Context, principal string) ([]entities.RoleGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	principal = strings.TrimSpace(principal)
	items := make([]entities.RoleGrant, 0)
	for _, grant := range s.grants {
		if grant.Principal == principal {
			items = append(items, grant)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Role < items[j].Role
	})
	return items, nil
}

func (s *Store) CreateOrganization(_ context.Context, org entities.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(org.OrgID)
	if _, ok := s.orgs[key]; ok {
		return domainerrors.ErrAlreadyExists
	}
	s.orgs[key] = org
	return nil
}

func (s *Store) GetOrganization(_ context.Context, orgID string) (entities.Organization, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[strings.TrimSpace(orgID)]
	return org, ok, nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox[event.EventID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
			CreatedAt: event.OccurredAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.OutboxMessage, 0)
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		items = append(items, record.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	record.published = true
	s.outbox[outboxID] = record
	return nil
}

// PendingOutboxCount is a test helper for asserting emitted events.
func (s *Store) PendingOutboxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, record := range s.outbox {
		if !record.published {
			count++
		}
	}
	return count
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
