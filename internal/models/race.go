package models

import (
	"github.com/google/uuid"
)

// Race represents one race within a meeting, keyed by race number
type Race struct {
	ID             uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	MeetingID      uuid.UUID `db:"meeting_id" json:"meeting_id" validate:"required,uuid4"`
	RaceNumber     int       `db:"race_number" json:"race_number" validate:"gte=0"`
	Distance       string    `db:"distance" json:"distance"`
	RaceClass      string    `db:"race_class" json:"race_class"`
	TrackCondition string    `db:"track_condition" json:"track_condition"`
}
