package postgresadapter

import (
	"time"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
)

type electionModel struct {
	ElectionID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Title             string    `gorm:"column:title"`
	DescriptionRef    string    `gorm:"column:description_ref"`
	MetadataRef       string    `gorm:"column:metadata_ref"`
	Type              string    `gorm:"column:election_type"`
	OrgID             string    `gorm:"column:org_id"`
	AdminID           string    `gorm:"column:admin_id"`
	Status            string    `gorm:"column:status"`
	RegistrationStart time.Time `gorm:"column:registration_start"`
	VotingStart       time.Time `gorm:"column:voting_start"`
	VotingEnd         time.Time `gorm:"column:voting_end"`
	TotalVotes        uint64    `gorm:"column:total_votes"`
	WinnerID          uint64    `gorm:"column:winner_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "engine_elections"
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionID:        m.ElectionID,
		Title:             m.Title,
		DescriptionRef:    m.DescriptionRef,
		MetadataRef:       m.MetadataRef,
		Type:              entities.Type(m.Type),
		OrgID:             m.OrgID,
		AdminID:           m.AdminID,
		Status:            entities.Status(m.Status),
		RegistrationStart: m.RegistrationStart.UTC(),
		VotingStart:       m.VotingStart.UTC(),
		VotingEnd:         m.VotingEnd.UTC(),
		TotalVotes:        m.TotalVotes,
		WinnerID:          m.WinnerID,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

func electionModelFromEntity(e entities.Election) electionModel {
	return electionModel{
		ElectionID:        e.ElectionID,
		Title:             e.Title,
		DescriptionRef:    e.DescriptionRef,
		MetadataRef:       e.MetadataRef,
		Type:              string(e.Type),
		OrgID:             e.OrgID,
		AdminID:           e.AdminID,
		Status:            string(e.Status),
		RegistrationStart: e.RegistrationStart.UTC(),
		VotingStart:       e.VotingStart.UTC(),
		VotingEnd:         e.VotingEnd.UTC(),
		TotalVotes:        e.TotalVotes,
		WinnerID:          e.WinnerID,
		CreatedAt:         e.CreatedAt.UTC(),
		UpdatedAt:         e.UpdatedAt.UTC(),
	}
}

type candidateModel struct {
	ElectionID  uint64    `gorm:"column:election_id;primaryKey"`
	CandidateID uint64    `gorm:"column:candidate_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	DetailsRef  string    `gorm:"column:details_ref"`
	VoteCount   uint64    `gorm:"column:vote_count"`
	Active      bool      `gorm:"column:active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "engine_candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		ElectionID:  m.ElectionID,
		CandidateID: m.CandidateID,
		Name:        m.Name,
		DetailsRef:  m.DetailsRef,
		VoteCount:   m.VoteCount,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func candidateModelFromEntity(c entities.Candidate) candidateModel {
	return candidateModel{
		ElectionID:  c.ElectionID,
		CandidateID: c.CandidateID,
		Name:        c.Name,
		DetailsRef:  c.DetailsRef,
		VoteCount:   c.VoteCount,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt.UTC(),
	}
}

type registrationModel struct {
	ElectionID      uint64     `gorm:"column:election_id;primaryKey"`
	Voter           string     `gorm:"column:voter;primaryKey"`
	Status          string     `gorm:"column:status"`
	VerificationRef string     `gorm:"column:verification_ref"`
	RegisteredAt    time.Time  `gorm:"column:registered_at"`
	ReviewedBy      string     `gorm:"column:reviewed_by"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
}

func (registrationModel) TableName() string {
	return "engine_registrations"
}

func (m registrationModel) toEntity() entities.Registration {
	var reviewedAt *time.Time
	if m.ReviewedAt != nil {
		value := m.ReviewedAt.UTC()
		reviewedAt = &value
	}
	return entities.Registration{
		ElectionID:      m.ElectionID,
		Voter:           m.Voter,
		Status:          entities.RegistrationStatus(m.Status),
		VerificationRef: m.VerificationRef,
		RegisteredAt:    m.RegisteredAt.UTC(),
		ReviewedBy:      m.ReviewedBy,
		ReviewedAt:      reviewedAt,
	}
}

func registrationModelFromEntity(r entities.Registration) registrationModel {
	var reviewedAt *time.Time
	if r.ReviewedAt != nil {
		value := r.ReviewedAt.UTC()
		reviewedAt = &value
	}
	return registrationModel{
		ElectionID:      r.ElectionID,
		Voter:           r.Voter,
		Status:          string(r.Status),
		VerificationRef: r.VerificationRef,
		RegisteredAt:    r.RegisteredAt.UTC(),
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      reviewedAt,
	}
}

type ballotModel struct {
	ElectionID uint64    `gorm:"column:election_id;primaryKey"`
	Voter      string    `gorm:"column:voter;primaryKey"`
	Receipt    string    `gorm:"column:receipt"`
	CastAt     time.Time `gorm:"column:cast_at"`
}

func (ballotModel) TableName() string {
	return "engine_ballots"
}

func (m ballotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		ElectionID: m.ElectionID,
		Voter:      m.Voter,
		Receipt:    m.Receipt,
		CastAt:     m.CastAt.UTC(),
	}
}

func ballotModelFromEntity(b entities.Ballot) ballotModel {
	return ballotModel{
		ElectionID: b.ElectionID,
		Voter:      b.Voter,
		Receipt:    b.Receipt,
		CastAt:     b.CastAt.UTC(),
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
	return "engine_outbox"
}
