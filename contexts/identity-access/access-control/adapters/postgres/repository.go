package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"suffrage/contexts/identity-access/access-control/domain/entities"
	domainerrors "suffrage/contexts/identity-access/access-control/domain/errors"
	"suffrage/contexts/identity-access/access-control/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository persists role grants and organizations in PostgreSQL.
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

func (r *Repository) HasRole(ctx context.Context, role entities.Role, principal string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&roleGrantModel{}).
		Where("role = ? AND principal = ?", string(role), strings.TrimSpace(principal)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("access_repo_has_role_failed", err,
			"role", string(role),
			"principal", strings.TrimSpace(principal),
		)
	}
	return count > 0, nil
}

func (r *Repository) SaveGrant(ctx context.Context, grant entities.RoleGrant) error {
	row := roleGrantModelFromEntity(grant)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role"}, {Name: "principal"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("access_repo_save_grant_failed", create.Error,
			"role", string(grant.Role),
			"principal", grant.Principal,
		)
	}
	return nil
}

func (r *Repository) DeleteGrant(ctx context.Context, role entities.Role, principal string) error {
	err := r.db.WithContext(ctx).
		Where("role = ? AND principal = ?", string(role), strings.TrimSpace(principal)).
		Delete(&roleGrantModel{}).
		Error
	if err != nil {
		return r.logError("access_repo_delete_grant_failed", err,
			"role", string(role),
			"principal", strings.TrimSpace(principal),
		)
	}
	return nil
}

func (r *Repository) ListGrants(ctx context.Context, principal string) ([]entities.RoleGrant, error) {
	var rows []roleGrantModel
	err := r.db.WithContext(ctx).
		Where("principal = ?", strings.TrimSpace(principal)).
		Order("role asc").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("access_repo_list_grants_failed", err,
			"principal", strings.TrimSpace(principal),
		)
	}
	items := make([]entities.RoleGrant, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateOrganization(ctx context.Context, org entities.Organization) error {
	row := organizationModel{
		OrgID:     strings.TrimSpace(org.OrgID),
		Name:      org.Name,
		CreatedBy: org.CreatedBy,
		CreatedAt: org.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return r.logError("access_repo_create_org_failed", err, "org_id", row.OrgID)
	}
	return nil
}

func (r *Repository) GetOrganization(ctx context.Context, orgID string) (entities.Organization, bool, error) {
	var row organizationModel
	err := r.db.WithContext(ctx).
		Where("org_id = ?", strings.TrimSpace(orgID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Organization{}, false, nil
		}
		return entities.Organization{}, false, r.logError("access_repo_get_org_failed", err,
			"org_id", strings.TrimSpace(orgID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("access_repo_append_outbox_marshal_failed", err,
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
		return r.logError("access_repo_append_outbox_insert_failed", create.Error,
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
		return nil, r.logError("access_repo_list_outbox_failed", err)
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
		return r.logError("access_repo_mark_outbox_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/access-control",
		"layer", "adapter",
		"error", err.Error(),
	}, attrs...)
	r.logger.Error("access-control postgres adapter failure", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type roleGrantModel struct {
	Role      string    `gorm:"column:role;primaryKey"`
	Principal string    `gorm:"column:principal;primaryKey"`
	GrantedBy string    `gorm:"column:granted_by"`
	GrantedAt time.Time `gorm:"column:granted_at"`
}

func (roleGrantModel) TableName() string {
	return "access_role_grants"
}

func roleGrantModelFromEntity(grant entities.RoleGrant) roleGrantModel {
	return roleGrantModel{
		Role:      string(grant.Role),
		Principal: strings.TrimSpace(grant.Principal),
		GrantedBy: grant.GrantedBy,
		GrantedAt: grant.GrantedAt.UTC(),
	}
}

func (m roleGrantModel) toEntity() entities.RoleGrant {
	return entities.RoleGrant{
		Role:      entities.Role(m.Role),
		Principal: m.Principal,
		GrantedBy: m.GrantedBy,
		GrantedAt: m.GrantedAt,
	}
}

type organizationModel struct {
	OrgID     string    `gorm:"column:org_id;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedBy string    `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (organizationModel) TableName() string {
	return "access_organizations"
}

func (m organizationModel) toEntity() entities.Organization {
	return entities.Organization{
		OrgID:     m.OrgID,
		Name:      m.Name,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "access_outbox"
}
