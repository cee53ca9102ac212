package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/raceday/internal/database"
	"github.com/yourusername/raceday/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// CreateWithTx inserts a new prediction using a provided transaction
func (r *PostgresPredictionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, horse_id, score, predicted_odds, win_probability, performance_component, base_probability, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query,
		prediction.ID, prediction.HorseID, prediction.Score, prediction.PredictedOdds,
		prediction.WinProbability, prediction.PerformanceComponent, prediction.BaseProbability, prediction.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction within transaction: %w", err)
	}

	return nil
}

// GetByHorseID retrieves the prediction for a horse. A horse without a
// prediction yields models.ErrNotFound, which read paths treat as defaults.
func (r *PostgresPredictionRepository) GetByHorseID(ctx context.Context, horseID uuid.UUID) (*models.Prediction, error) {
	query := `
		SELECT id, horse_id, score, predicted_odds, win_probability, performance_component, base_probability, notes
		FROM predictions WHERE horse_id = $1
	`

	prediction := &models.Prediction{}
	err := r.db.GetPool().QueryRow(ctx, query, horseID).Scan(
		&prediction.ID, &prediction.HorseID, &prediction.Score, &prediction.PredictedOdds,
		&prediction.WinProbability, &prediction.PerformanceComponent, &prediction.BaseProbability, &prediction.Notes,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return prediction, nil
}
