package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	domainerrors "suffrage/contexts/election-lifecycle/election-engine/domain/errors"
	"suffrage/contexts/election-lifecycle/election-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository persists election-engine state in PostgreSQL. Identifier
// allocation relies on the engine's serialized write model: election ids come
// from the table sequence, candidate ids are assigned per election inside the
// insert transaction.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateElection(ctx context.Context, election entities.Election) (entities.Election, error) {
	row := electionModelFromEntity(election)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Election{}, r.logError("election_repo_create_failed", err,
			"admin_id", election.AdminID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetElection(ctx context.Context, electionID uint64) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", electionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_failed", err, "election_id", electionID)
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", election.ElectionID).
		Updates(map[string]any{
			"status":      row.Status,
			"total_votes": row.TotalVotes,
			"winner_id":   row.WinnerID,
			"updated_at":  row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("election_repo_save_failed", result.Error, "election_id", election.ElectionID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	err := r.db.WithContext(ctx).
		Order("id asc").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_failed", err)
	}
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AddCandidate(ctx context.Context, candidate entities.Candidate) (entities.Candidate, error) {
	var stored candidateModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&candidateModel{}).
			Where("election_id = ?", candidate.ElectionID).
			Count(&count).Error; err != nil {
			return err
		}
		stored = candidateModelFromEntity(candidate)
		stored.CandidateID = uint64(count) + 1
		return tx.Create(&stored).Error
	})
	if err != nil {
		return entities.Candidate{}, r.logError("election_repo_add_candidate_failed", err,
			"election_id", candidate.ElectionID,
		)
	}
	return stored.toEntity(), nil
}

func (r *Repository) GetCandidate(ctx context.Context, electionID uint64, candidateID uint64) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("election_id = ? AND candidate_id = ?", electionID, candidateID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrInvalidCandidate
		}
		return entities.Candidate{}, r.logError("election_repo_get_candidate_failed", err,
			"election_id", electionID,
			"candidate_id", candidateID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidates(ctx context.Context, electionID uint64) ([]entities.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Order("candidate_id asc").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_candidates_failed", err, "election_id", electionID)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveCandidate(ctx context.Context, candidate entities.Candidate) error {
	result := r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("election_id = ? AND candidate_id = ?", candidate.ElectionID, candidate.CandidateID).
		Updates(map[string]any{
			"vote_count": candidate.VoteCount,
			"active":     candidate.Active,
		})
	if result.Error != nil {
		return r.logError("election_repo_save_candidate_failed", result.Error,
			"election_id", candidate.ElectionID,
			"candidate_id", candidate.CandidateID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidCandidate
	}
	return nil
}

func (r *Repository) CountCandidates(ctx context.Context, electionID uint64) (uint64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("election_id = ?", electionID).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("election_repo_count_candidates_failed", err, "election_id", electionID)
	}
	return uint64(count), nil
}

func (r *Repository) GetRegistration(ctx context.Context, electionID uint64, voter string) (entities.Registration, bool, error) {
	var row registrationModel
	err := r.db.WithContext(ctx).
		Where("election_id = ? AND voter = ?", electionID, strings.TrimSpace(voter)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Registration{}, false, nil
		}
		return entities.Registration{}, false, r.logError("election_repo_get_registration_failed", err,
			"election_id", electionID,
			"voter", strings.TrimSpace(voter),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveRegistration(ctx context.Context, registration entities.Registration) error {
	row := registrationModelFromEntity(registration)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "election_id"}, {Name: "voter"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":           row.Status,
			"verification_ref": row.VerificationRef,
			"registered_at":    row.RegisteredAt,
			"reviewed_by":      row.ReviewedBy,
			"reviewed_at":      row.ReviewedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("election_repo_save_registration_failed", err,
			"election_id", registration.ElectionID,
			"voter", registration.Voter,
		)
	}
	return nil
}

func (r *Repository) ListRegistrations(ctx context.Context, electionID uint64) ([]entities.Registration, error) {
	var rows []registrationModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Order("voter asc").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_registrations_failed", err, "election_id", electionID)
	}
	items := make([]entities.Registration, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetBallot(ctx context.Context, electionID uint64, voter string) (entities.Ballot, bool, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("election_id = ? AND voter = ?", electionID, strings.TrimSpace(voter)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, false, nil
		}
		return entities.Ballot{}, false, r.logError("election_repo_get_ballot_failed", err,
			"election_id", electionID,
			"voter", strings.TrimSpace(voter),
		)
	}
	return row.toEntity(), true, nil
}

// CommitBallot applies the ballot row, the candidate tally, and the election
// total inside one transaction. The unique (election_id, voter) index turns a
// racing duplicate into ErrAlreadyVoted with no partial state.
func (r *Repository) CommitBallot(
	ctx context.Context,
	ballot entities.Ballot,
	candidate entities.Candidate,
	election entities.Election,
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := ballotModelFromEntity(ballot)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Model(&candidateModel{}).
			Where("election_id = ? AND candidate_id = ?", candidate.ElectionID, candidate.CandidateID).
			Update("vote_count", candidate.VoteCount).Error; err != nil {
			return err
		}
		return tx.Model(&electionModel{}).
			Where("id = ?", election.ElectionID).
			Updates(map[string]any{
				"total_votes": election.TotalVotes,
				"updated_at":  election.UpdatedAt.UTC(),
			}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("election_repo_commit_ballot_failed", err,
			"election_id", ballot.ElectionID,
			"voter", ballot.Voter,
		)
	}
	return nil
}

// HasRole reads the identity context's grant table as a projection, the same
// way other cross-context reads work in this codebase.
func (r *Repository) HasRole(ctx context.Context, role string, principal string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("access_role_grants").
		Where("role = ? AND principal = ?", strings.TrimSpace(role), strings.TrimSpace(principal)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("election_repo_has_role_failed", err,
			"role", strings.TrimSpace(role),
			"principal", strings.TrimSpace(principal),
		)
	}
	return count > 0, nil
}

func (r *Repository) OrganizationExists(ctx context.Context, orgID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("access_organizations").
		Where("org_id = ?", strings.TrimSpace(orgID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("election_repo_org_exists_failed", err,
			"org_id", strings.TrimSpace(orgID),
		)
	}
	return count > 0, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("election_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at asc").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		}).
		Error
	if err != nil {
		return r.logError("election_repo_mark_outbox_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := append([]any{
		"event", event,
		"module", "election-lifecycle/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, attrs...)
	r.logger.Error("election-engine postgres adapter failure", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
