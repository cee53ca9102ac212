package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/raceday/internal/models"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, meeting *models.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Meeting, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RaceRepository defines the interface for race data access
type RaceRepository interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, race *models.Race) error
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*models.Race, error)
}

// HorseRepository defines the interface for horse data access
type HorseRepository interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, horse *models.Horse) error
	GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.Horse, error)
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, prediction *models.Prediction) error
	GetByHorseID(ctx context.Context, horseID uuid.UUID) (*models.Prediction, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
