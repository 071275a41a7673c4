package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dkeye/Arena/internal/domain"
)

// debateRecord is the gorm shape of a debate. Participant and vote
// structures go into jsonb columns; scalar fields stay queryable.
type debateRecord struct {
	ID              string             `gorm:"primaryKey"`
	Topic           string
	Status          string             `gorm:"index"`
	ParticipantA    domain.Participant `gorm:"type:jsonb;serializer:json"`
	ParticipantB    domain.Participant `gorm:"type:jsonb;serializer:json"`
	Votes           domain.Votes       `gorm:"type:jsonb;serializer:json"`
	SpectatorCount  int
	Winner          string
	CreatedAt       time.Time
	StartedAt       time.Time
	FinishedAt      time.Time
	DurationSeconds int
}

func (debateRecord) TableName() string { return "debates" }

type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(host, user, password, dbname string, port int) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&debateRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Create(d *domain.Debate) error {
	if d.ID == "" {
		d.ID = domain.DebateID(uuid.NewString())
	}
	return s.db.Create(toRecord(d)).Error
}

func (s *PostgresStore) FindByID(id domain.DebateID) (*domain.Debate, error) {
	var rec debateRecord
	err := s.db.First(&rec, "id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromRecord(&rec), nil
}

func (s *PostgresStore) Save(d *domain.Debate) error {
	return s.db.Save(toRecord(d)).Error
}

// Available pings the underlying connection.
func (s *PostgresStore) Available() bool {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(d *domain.Debate) *debateRecord {
	return &debateRecord{
		ID:              string(d.ID),
		Topic:           d.Topic,
		Status:          string(d.Status),
		ParticipantA:    d.ParticipantA,
		ParticipantB:    d.ParticipantB,
		Votes:           d.Votes,
		SpectatorCount:  d.SpectatorCount,
		Winner:          string(d.Winner),
		CreatedAt:       d.CreatedAt,
		StartedAt:       d.StartedAt,
		FinishedAt:      d.FinishedAt,
		DurationSeconds: d.DurationSeconds,
	}
}

func fromRecord(rec *debateRecord) *domain.Debate {
	return &domain.Debate{
		ID:              domain.DebateID(rec.ID),
		Topic:           rec.Topic,
		Status:          domain.Status(rec.Status),
		ParticipantA:    rec.ParticipantA,
		ParticipantB:    rec.ParticipantB,
		Votes:           rec.Votes,
		SpectatorCount:  rec.SpectatorCount,
		Winner:          domain.Winner(rec.Winner),
		CreatedAt:       rec.CreatedAt,
		StartedAt:       rec.StartedAt,
		FinishedAt:      rec.FinishedAt,
		DurationSeconds: rec.DurationSeconds,
	}
}
