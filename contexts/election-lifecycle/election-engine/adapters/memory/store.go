package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	domainerrors "suffrage/contexts/election-lifecycle/election-engine/domain/errors"
	"suffrage/contexts/election-lifecycle/election-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is an in-memory adapter implementing every election-engine port. One
// mutex serializes all writes, which matches the engine's single-writer
// execution model. Role and organization facts are projections seeded by
// tests or consumed from identity-context events.
type Store struct {
	mu sync.RWMutex

	nextElectionID uint64
	elections      map[uint64]entities.Election
	candidates     map[uint64]map[uint64]entities.Candidate
	registrations  map[string]entities.Registration
	ballots        map[string]entities.Ballot
	outbox         map[string]outboxRecord

	roles map[string]bool
	orgs  map[string]bool
}

// NewStore builds a deterministic in-memory adapter.
func NewStore() *Store {
	return &Store{
		nextElectionID: 1,
		elections:      make(map[uint64]entities.Election),
		candidates:     make(map[uint64]map[uint64]entities.Candidate),
		registrations:  make(map[string]entities.Registration),
		ballots:        make(map[string]entities.Ballot),
		outbox:         make(map[string]outboxRecord),
		roles:          make(map[string]bool),
		orgs:           make(map[string]bool),
	}
}

func voterKey(electionID uint64, voter string) string {
	return strconv.FormatUint(electionID, 10) + ":" + strings.TrimSpace(voter)
}

func roleKey(role string, principal string) string {
	return strings.TrimSpace(role) + ":" + strings.TrimSpace(principal)
}

// SetRole seeds a role projection for the principal.
func (s *Store) SetRole(role string, principal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[roleKey(role, principal)] = true
}

// SetOrganization seeds an organization projection.
func (s *Store) SetOrganization(orgID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[strings.TrimSpace(orgID)] = true
}

func (s *Store) HasRole(_ context.Context, role string, principal string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles[roleKey(role, principal)], nil
}

func (s *Store) OrganizationExists(_ context.Context, orgID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orgs[strings.TrimSpace(orgID)], nil
}

func (s *Store) CreateElection(_ context.Context, election entities.Election) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	election.ElectionID = s.nextElectionID
	s.nextElectionID++
	s.elections[election.ElectionID] = election
	s.candidates[election.ElectionID] = make(map[uint64]entities.Candidate)
	return election, nil
}

func (s *Store) GetElection(_ context.Context, electionID uint64) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[electionID]
	if !ok {
		return entities.Election{}, domainerrors.ErrNotFound
	}
	return election, nil
}

func (s *Store) SaveElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elections[election.ElectionID]; !ok {
		return domainerrors.ErrNotFound
	}
	s.elections[election.ElectionID] = election
	return nil
}

func (s *Store) ListElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		items = append(items, election)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ElectionID < items[j].ElectionID
	})
	return items, nil
}

func (s *Store) AddCandidate(_ context.Context, candidate entities.Candidate) (entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster, ok := s.candidates[candidate.ElectionID]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrNotFound
	}
	candidate.CandidateID = uint64(len(roster)) + 1
	roster[candidate.CandidateID] = candidate
	return candidate, nil
}

func (s *Store) GetCandidate(_ context.Context, electionID uint64, candidateID uint64) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roster, ok := s.candidates[electionID]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrNotFound
	}
	candidate, ok := roster[candidateID]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrInvalidCandidate
	}
	return candidate, nil
}

func (s *Store) ListCandidates(_ context.Context, electionID uint64) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roster, ok := s.candidates[electionID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	items := make([]entities.Candidate, 0, len(roster))
	for _, candidate := range roster {
		items = append(items, candidate)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CandidateID < items[j].CandidateID
	})
	return items, nil
}

func (s *Store) SaveCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster, ok := s.candidates[candidate.ElectionID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if _, ok := roster[candidate.CandidateID]; !ok {
		return domainerrors.ErrInvalidCandidate
	}
	roster[candidate.CandidateID] = candidate
	return nil
}

func (s *Store) CountCandidates(_ context.Context, electionID uint64) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roster, ok := s.candidates[electionID]
	if !ok {
		return 0, domainerrors.ErrNotFound
	}
	return uint64(len(roster)), nil
}

func (s *Store) GetRegistration(_ context.Context, electionID uint64, voter string) (entities.Registration, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	registration, ok := s.registrations[voterKey(electionID, voter)]
	return registration, ok, nil
}

func (s *Store) SaveRegistration(_ context.Context, registration entities.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations[voterKey(registration.ElectionID, registration.Voter)] = registration
	return nil
}

func (s *Store) ListRegistrations(_ context.Context, electionID uint64) ([]entities.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Registration, 0)
	for _, registration := range s.registrations {
		if registration.ElectionID == electionID {
			items = append(items, registration)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Voter < items[j].Voter
	})
	return items, nil
}

func (s *Store) GetBallot(_ context.Context, electionID uint64, voter string) (entities.Ballot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ballot, ok := s.ballots[voterKey(electionID, voter)]
	return ballot, ok, nil
}

// CommitBallot applies the ballot, the candidate tally, and the election
// total under one lock acquisition so no reader observes a partial cast.
func (s *Store) CommitBallot(
	_ context.Context,
	ballot entities.Ballot,
	candidate entities.Candidate,
	election entities.Election,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voterKey(ballot.ElectionID, ballot.Voter)
	if _, ok := s.ballots[key]; ok {
		return domainerrors.ErrAlreadyVoted
	}
	roster, ok := s.candidates[candidate.ElectionID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if _, ok := s.elections[election.ElectionID]; !ok {
		return domainerrors.ErrNotFound
	}
	s.ballots[key] = ballot
	roster[candidate.CandidateID] = candidate
	s.elections[election.ElectionID] = election
	return nil
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
