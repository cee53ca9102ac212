package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/raceday/internal/database"
	"github.com/yourusername/raceday/internal/models"
)

const errScanHorse = "failed to scan horse: %w"

// PostgresHorseRepository implements HorseRepository for PostgreSQL
type PostgresHorseRepository struct {
	db *database.DB
}

// NewPostgresHorseRepository creates a new horse repository
func NewPostgresHorseRepository(db *database.DB) HorseRepository {
	return &PostgresHorseRepository{db: db}
}

// CreateWithTx inserts a new horse using a provided transaction
func (r *PostgresHorseRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, horse *models.Horse) error {
	query := `
		INSERT INTO horses (id, race_id, position, horse_name, barrier, weight, jockey, trainer, form, csv_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		horse.ID, horse.RaceID, horse.Position, horse.HorseName, horse.Barrier,
		horse.Weight, horse.Jockey, horse.Trainer, horse.Form, horse.CSVData,
	)
	if err != nil {
		return fmt.Errorf("failed to create horse within transaction: %w", err)
	}

	return nil
}

// GetByRaceID retrieves a race's horses in stored order
func (r *PostgresHorseRepository) GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.Horse, error) {
	query := `
		SELECT id, race_id, position, horse_name, barrier, weight, jockey, trainer, form, csv_data
		FROM horses
		WHERE race_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query horses by race: %w", err)
	}
	defer rows.Close()

	var horses []*models.Horse
	for rows.Next() {
		horse := &models.Horse{}
		err := rows.Scan(
			&horse.ID, &horse.RaceID, &horse.Position, &horse.HorseName, &horse.Barrier,
			&horse.Weight, &horse.Jockey, &horse.Trainer, &horse.Form, &horse.CSVData,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanHorse, err)
		}
		horses = append(horses, horse)
	}

	return horses, rows.Err()
}
