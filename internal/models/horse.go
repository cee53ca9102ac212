package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Horse represents one entrant in a race. Barrier and weight are optional:
// the analyzer output is loosely typed and either may be absent or garbage,
// in which case they are stored as NULL. CSVData preserves the analyzer's
// full horse field map verbatim for audit.
type Horse struct {
	ID        uuid.UUID        `db:"id" json:"id" validate:"required,uuid4"`
	RaceID    uuid.UUID        `db:"race_id" json:"race_id" validate:"required,uuid4"`
	Position  int              `db:"position" json:"position"`
	HorseName string           `db:"horse_name" json:"horse_name"`
	Barrier   *int             `db:"barrier" json:"barrier"`
	Weight    *decimal.Decimal `db:"weight" json:"weight"`
	Jockey    string           `db:"jockey" json:"jockey"`
	Trainer   string           `db:"trainer" json:"trainer"`
	Form      string           `db:"form" json:"form"`
	CSVData   json.RawMessage  `db:"csv_data" json:"csv_data"`
}

// GetBarrier returns the barrier or 0 if unknown
func (h *Horse) GetBarrier() int {
	if h.Barrier == nil {
		return 0
	}
	return *h.Barrier
}
