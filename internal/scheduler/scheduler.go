// Package scheduler runs the periodic meeting retention job.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceday/internal/metrics"
	"github.com/yourusername/raceday/internal/repository"
)

const defaultSchedule = "0 3 * * *"

// Scheduler deletes meetings older than the retention window on a cron
// schedule. Deletes cascade, so a purged meeting takes its races, horses
// and predictions with it.
type Scheduler struct {
	cron     *cron.Cron
	meetings repository.MeetingRepository
	maxAge   time.Duration
	schedule string
	logger   *logrus.Logger

	mu        sync.Mutex
	isRunning bool
	jobID     cron.EntryID
}

// NewScheduler creates a new retention scheduler
func NewScheduler(meetings repository.MeetingRepository, maxAge time.Duration, schedule string, logger *logrus.Logger) *Scheduler {
	if schedule == "" {
		schedule = defaultSchedule
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		meetings: meetings,
		maxAge:   maxAge,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the retention job and begins the cron loop
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if s.maxAge <= 0 {
		return fmt.Errorf("retention max age must be positive")
	}

	jobID, err := s.cron.AddFunc(s.schedule, s.runRetention)
	if err != nil {
		return fmt.Errorf("failed to schedule retention job: %w", err)
	}

	s.jobID = jobID
	s.cron.Start()
	s.isRunning = true
	s.logger.WithFields(logrus.Fields{
		"schedule": s.schedule,
		"max_age":  s.maxAge.String(),
	}).Info("Retention scheduler started")

	return nil
}

// Stop waits for any in-flight retention run to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Retention scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled retention run
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.jobID).Next
}

func (s *Scheduler) runRetention() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.maxAge)
	deleted, err := s.meetings.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Retention run failed")
		return
	}

	if deleted > 0 {
		metrics.MeetingsDeletedTotal.Add(float64(deleted))
	}
	s.logger.WithFields(logrus.Fields{
		"cutoff":  cutoff.Format(time.RFC3339),
		"deleted": deleted,
	}).Info("Retention run completed")
}
