// Package server exposes the upload and results API over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceday/internal/auth"
	"github.com/yourusername/raceday/internal/config"
	"github.com/yourusername/raceday/internal/logger"
	"github.com/yourusername/raceday/internal/models"
	"github.com/yourusername/raceday/internal/service"
)

// DatabasePinger checks database connectivity for readiness probes.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// AnalysisAPI is the slice of the analysis service the handlers need.
type AnalysisAPI interface {
	AnalyzeAndStore(ctx context.Context, csvData, filename, trackCondition string, userID uuid.UUID, advanced bool) (*service.AnalysisOutcome, error)
	GetMeetingResults(ctx context.Context, meetingID uuid.UUID) (*service.MeetingResults, error)
	ListMeetings(ctx context.Context, userID uuid.UUID, isAdmin bool, limit int) ([]*models.Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID, userID uuid.UUID, isAdmin bool) error
}

// Server wires the HTTP surface around the analysis and auth services
type Server struct {
	echo     *echo.Echo
	analysis AnalysisAPI
	auth     *auth.Service
	db       DatabasePinger
	cfg      *config.ServerConfig
	logger   *logrus.Logger
	audit    *logger.AuditLogger
	limiters *uploadLimiters
}

// New creates a new server with all routes registered
func New(analysis AnalysisAPI, authSvc *auth.Service, db DatabasePinger, cfg *config.ServerConfig, log *logrus.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		analysis: analysis,
		auth:     authSvc,
		db:       db,
		cfg:      cfg,
		logger:   log,
		audit:    logger.NewAuditLogger(log),
		limiters: newUploadLimiters(cfg.UploadRateLimit, cfg.UploadBurst),
	}

	e.Use(echomw.Recover())
	e.Use(s.requestLogger)
	e.Use(echomw.BodyLimit(fmt.Sprintf("%d", cfg.MaxUploadBytes)))

	e.GET("/health", s.handleHealth)
	e.GET("/ready", s.handleReady)
	e.POST("/api/login", s.handleLogin)

	api := e.Group("/api", s.requireAuth)
	api.POST("/meetings", s.handleUpload, s.rateLimitUploads)
	api.GET("/meetings", s.handleListMeetings)
	api.GET("/meetings/:id", s.handleGetMeeting)
	api.DELETE("/meetings/:id", s.handleDeleteMeeting)

	return s
}

// Start begins serving on the given address and blocks until shutdown
func (s *Server) Start(addr string) error {
	s.logger.WithField("addr", addr).Info("HTTP server listening")
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleHealth is a plain liveness probe
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady checks database connectivity before reporting ready
func (s *Server) handleReady(c echo.Context) error {
	checks := map[string]string{"service": "ok"}
	status := http.StatusOK

	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = fmt.Sprintf("error: %v", err)
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}

	return c.JSON(status, map[string]any{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
