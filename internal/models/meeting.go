package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Meeting represents one uploaded race-day CSV and its derived results
type Meeting struct {
	ID          uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	UserID      uuid.UUID `db:"user_id" json:"user_id" validate:"required,uuid4"`
	MeetingName string    `db:"meeting_name" json:"meeting_name" validate:"required"`
	CSVData     string    `db:"csv_data" json:"-"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// MeetingNameFromFilename derives the display name from the uploaded filename
func MeetingNameFromFilename(filename string) string {
	return strings.TrimSuffix(filename, ".csv")
}

// IsOwnedBy checks whether the meeting belongs to the given user
func (m *Meeting) IsOwnedBy(userID uuid.UUID) bool {
	return m.UserID == userID
}
