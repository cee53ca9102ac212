package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/raceday/internal/database"
	"github.com/yourusername/raceday/internal/models"
)

const errScanMeeting = "failed to scan meeting: %w"

// PostgresMeetingRepository implements MeetingRepository for PostgreSQL
type PostgresMeetingRepository struct {
	db *database.DB
}

// NewPostgresMeetingRepository creates a new meeting repository
func NewPostgresMeetingRepository(db *database.DB) MeetingRepository {
	return &PostgresMeetingRepository{db: db}
}

// CreateWithTx inserts a new meeting using a provided transaction
func (r *PostgresMeetingRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, meeting *models.Meeting) error {
	query := `
		INSERT INTO meetings (id, user_id, meeting_name, csv_data, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query,
		meeting.ID, meeting.UserID, meeting.MeetingName, meeting.CSVData, meeting.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create meeting within transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a meeting by ID
func (r *PostgresMeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	query := `
		SELECT id, user_id, meeting_name, csv_data, uploaded_at
		FROM meetings WHERE id = $1
	`

	meeting := &models.Meeting{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&meeting.ID, &meeting.UserID, &meeting.MeetingName, &meeting.CSVData, &meeting.UploadedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	return meeting, nil
}

// ListByUser retrieves a user's meetings, newest first. The CSV payload is
// not loaded for listings.
func (r *PostgresMeetingRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Meeting, error) {
	query := `
		SELECT id, user_id, meeting_name, uploaded_at
		FROM meetings
		WHERE user_id = $1
		ORDER BY uploaded_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings by user: %w", err)
	}
	defer rows.Close()

	return scanMeetingList(rows)
}

// ListRecent retrieves the most recent meetings across all users
func (r *PostgresMeetingRepository) ListRecent(ctx context.Context, limit int) ([]*models.Meeting, error) {
	query := `
		SELECT id, user_id, meeting_name, uploaded_at
		FROM meetings
		ORDER BY uploaded_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent meetings: %w", err)
	}
	defer rows.Close()

	return scanMeetingList(rows)
}

// Delete deletes a meeting; races, horses and predictions cascade
func (r *PostgresMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM meetings WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteOlderThan deletes meetings uploaded before the cutoff and returns the count
func (r *PostgresMeetingRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := "DELETE FROM meetings WHERE uploaded_at < $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired meetings: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

// scanMeetingList scans listing rows without the CSV payload
func scanMeetingList(rows pgx.Rows) ([]*models.Meeting, error) {
	var meetings []*models.Meeting
	for rows.Next() {
		meeting := &models.Meeting{}
		err := rows.Scan(&meeting.ID, &meeting.UserID, &meeting.MeetingName, &meeting.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf(errScanMeeting, err)
		}
		meetings = append(meetings, meeting)
	}

	return meetings, rows.Err()
}
