package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/raceday/internal/database"
	"github.com/yourusername/raceday/internal/models"
)

const errScanRace = "failed to scan race: %w"

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db *database.DB
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB) RaceRepository {
	return &PostgresRaceRepository{db: db}
}

// CreateWithTx inserts a new race using a provided transaction
func (r *PostgresRaceRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, race *models.Race) error {
	query := `
		INSERT INTO races (id, meeting_id, race_number, distance, race_class, track_condition)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		race.ID, race.MeetingID, race.RaceNumber, race.Distance, race.RaceClass, race.TrackCondition,
	)
	if err != nil {
		return fmt.Errorf("failed to create race within transaction: %w", err)
	}

	return nil
}

// GetByMeetingID retrieves a meeting's races ordered by race number ascending
func (r *PostgresRaceRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*models.Race, error) {
	query := `
		SELECT id, meeting_id, race_number, distance, race_class, track_condition
		FROM races
		WHERE meeting_id = $1
		ORDER BY race_number ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query races by meeting: %w", err)
	}
	defer rows.Close()

	var races []*models.Race
	for rows.Next() {
		race := &models.Race{}
		err := rows.Scan(
			&race.ID, &race.MeetingID, &race.RaceNumber, &race.Distance, &race.RaceClass, &race.TrackCondition,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanRace, err)
		}
		races = append(races, race)
	}

	return races, rows.Err()
}
