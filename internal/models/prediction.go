package models

import (
	"github.com/google/uuid"
)

// Prediction represents the analyzer's scoring output for one horse.
// The probability fields are free text passed through from the analyzer;
// only the score is numeric.
type Prediction struct {
	ID                   uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	HorseID              uuid.UUID `db:"horse_id" json:"horse_id" validate:"required,uuid4"`
	Score                float64   `db:"score" json:"score"`
	PredictedOdds        string    `db:"predicted_odds" json:"predicted_odds"`
	WinProbability       string    `db:"win_probability" json:"win_probability"`
	PerformanceComponent string    `db:"performance_component" json:"performance_component"`
	BaseProbability      string    `db:"base_probability" json:"base_probability"`
	Notes                string    `db:"notes" json:"notes"`
}
