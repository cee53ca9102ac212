package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceday/internal/logger"
	"github.com/yourusername/raceday/internal/metrics"
	"github.com/yourusername/raceday/internal/models"
	"github.com/yourusername/raceday/internal/repository"
	"github.com/yourusername/raceday/internal/scorer"
)

// ErrStorageWrite indicates the meeting insert batch failed and was rolled back
var ErrStorageWrite = errors.New("storage write failed")

// ErrForbidden indicates the caller does not own the meeting
var ErrForbidden = errors.New("not allowed")

// TxRunner runs a function inside one database transaction
type TxRunner interface {
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// AnalysisService runs the upload pipeline end to end: invoke the analyzer,
// normalize its output and persist the meeting, then reconstruct stored
// meetings for display. Each request runs its own pipeline; there is no
// shared mutable state and no cross-request cache.
type AnalysisService struct {
	db          TxRunner
	scorer      scorer.Scorer
	normalizer  *Normalizer
	meetingRepo repository.MeetingRepository
	raceRepo    repository.RaceRepository
	horseRepo   repository.HorseRepository
	predRepo    repository.PredictionRepository
	audit       *logger.AuditLogger
	logger      *logrus.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	db TxRunner,
	sc scorer.Scorer,
	normalizer *Normalizer,
	meetingRepo repository.MeetingRepository,
	raceRepo repository.RaceRepository,
	horseRepo repository.HorseRepository,
	predRepo repository.PredictionRepository,
	audit *logger.AuditLogger,
	log *logrus.Logger,
) *AnalysisService {
	return &AnalysisService{
		db:          db,
		scorer:      sc,
		normalizer:  normalizer,
		meetingRepo: meetingRepo,
		raceRepo:    raceRepo,
		horseRepo:   horseRepo,
		predRepo:    predRepo,
		audit:       audit,
		logger:      log,
	}
}

// AnalysisOutcome is returned to the caller after a successful upload
type AnalysisOutcome struct {
	MeetingID   uuid.UUID       `json:"meeting_id"`
	MeetingName string          `json:"meeting_name"`
	Results     []scorer.Result `json:"results"`
}

// AnalyzeAndStore scores the uploaded CSV and persists the meeting with all
// derived races, horses and predictions in a single transaction. Analyzer
// failures surface unwrapped so callers can distinguish them; they are never
// retried here. On any storage failure the whole batch rolls back and no
// partial meeting is ever visible to readers.
func (s *AnalysisService) AnalyzeAndStore(ctx context.Context, csvData, filename, trackCondition string, userID uuid.UUID, advanced bool) (*AnalysisOutcome, error) {
	results, err := s.scorer.Score(ctx, scorer.Request{
		CSVData:        csvData,
		TrackCondition: trackCondition,
		IsAdvanced:     advanced,
	})
	if err != nil {
		return nil, err
	}

	meeting := &models.Meeting{
		ID:          uuid.New(),
		UserID:      userID,
		MeetingName: models.MeetingNameFromFilename(filename),
		CSVData:     csvData,
		UploadedAt:  time.Now().UTC(),
	}

	races := s.normalizer.NormalizeResults(meeting.ID, results)

	err = s.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.meetingRepo.CreateWithTx(ctx, tx, meeting); err != nil {
			return err
		}
		for _, race := range races {
			if err := s.raceRepo.CreateWithTx(ctx, tx, race.Race); err != nil {
				return err
			}
			for _, horse := range race.Horses {
				if err := s.horseRepo.CreateWithTx(ctx, tx, horse.Horse); err != nil {
					return err
				}
				if err := s.predRepo.CreateWithTx(ctx, tx, horse.Prediction); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	metrics.MeetingsStoredTotal.Inc()
	s.audit.LogMeetingUpload(
		meeting.ID.String(), userID.String(), meeting.MeetingName,
		trackCondition, advanced, len(races), len(results), meeting.UploadedAt,
	)

	return &AnalysisOutcome{
		MeetingID:   meeting.ID,
		MeetingName: meeting.MeetingName,
		Results:     results,
	}, nil
}

// ListMeetings returns meeting summaries for the history view. Admins see
// all recent meetings, other users only their own.
func (s *AnalysisService) ListMeetings(ctx context.Context, userID uuid.UUID, isAdmin bool, limit int) ([]*models.Meeting, error) {
	if limit <= 0 {
		limit = 50
	}
	if isAdmin {
		return s.meetingRepo.ListRecent(ctx, limit)
	}
	return s.meetingRepo.ListByUser(ctx, userID, limit)
}

// DeleteMeeting removes a meeting and everything under it. Only the owner or
// an admin may delete.
func (s *AnalysisService) DeleteMeeting(ctx context.Context, meetingID, userID uuid.UUID, isAdmin bool) error {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}

	if !isAdmin && !meeting.IsOwnedBy(userID) {
		return ErrForbidden
	}

	if err := s.meetingRepo.Delete(ctx, meetingID); err != nil {
		return err
	}

	metrics.MeetingsDeletedTotal.Inc()
	s.audit.LogMeetingDelete(meetingID.String(), userID.String(), false)
	return nil
}
