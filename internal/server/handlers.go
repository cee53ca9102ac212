package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/yourusername/raceday/internal/auth"
	"github.com/yourusername/raceday/internal/metrics"
	"github.com/yourusername/raceday/internal/models"
	"github.com/yourusername/raceday/internal/scorer"
	"github.com/yourusername/raceday/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, user, err := s.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			s.audit.LogLogin(req.Username, false)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		s.logger.WithError(err).Error("Login failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.audit.LogLogin(user.Username, true)
	return c.JSON(http.StatusOK, loginResponse{
		Token:    token,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
}

// handleUpload accepts a multipart CSV upload, runs the analyzer and stores
// the meeting. Analyzer failures map to 422 with a reason; storage failures
// map to 500 and leave nothing behind.
func (s *Server) handleUpload(c echo.Context) error {
	user := currentUser(c)
	start := time.Now()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a CSV file is required")
	}

	csvData, err := readUpload(fileHeader, s.cfg.MaxUploadBytes)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	trackCondition := c.FormValue("track_condition")
	advanced, _ := strconv.ParseBool(c.FormValue("advanced"))

	outcome, err := s.analysis.AnalyzeAndStore(
		c.Request().Context(), csvData, fileHeader.Filename, trackCondition, user.ID, advanced,
	)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("failure").Inc()
		return s.mapUploadError(err)
	}

	metrics.UploadsTotal.WithLabelValues("success").Inc()
	metrics.UploadDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusCreated, outcome)
}

func (s *Server) handleListMeetings(c echo.Context) error {
	user := currentUser(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	meetings, err := s.analysis.ListMeetings(c.Request().Context(), user.ID, user.IsAdmin, limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list meetings")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list meetings")
	}

	return c.JSON(http.StatusOK, meetings)
}

func (s *Server) handleGetMeeting(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid meeting id")
	}

	results, err := s.analysis.GetMeetingResults(c.Request().Context(), meetingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "meeting not found")
		}
		s.logger.WithError(err).WithField("meeting_id", meetingID).Error("Failed to load meeting")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load meeting")
	}

	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleDeleteMeeting(c echo.Context) error {
	user := currentUser(c)

	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid meeting id")
	}

	err = s.analysis.DeleteMeeting(c.Request().Context(), meetingID, user.ID, user.IsAdmin)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "meeting not found")
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "not your meeting")
	case err != nil:
		s.logger.WithError(err).WithField("meeting_id", meetingID).Error("Failed to delete meeting")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete meeting")
	}

	return c.NoContent(http.StatusNoContent)
}

// mapUploadError translates pipeline failures into HTTP responses without
// leaking analyzer internals beyond the captured reason.
func (s *Server) mapUploadError(err error) error {
	switch {
	case errors.Is(err, scorer.ErrTimeout):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "analysis timed out")
	case errors.Is(err, scorer.ErrAnalyzerFailed):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "analysis failed: "+err.Error())
	case errors.Is(err, scorer.ErrBadOutput):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "analysis produced invalid output")
	case errors.Is(err, service.ErrStorageWrite):
		s.logger.WithError(err).Error("Meeting storage failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store analysis results")
	default:
		s.logger.WithError(err).Error("Upload failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}
}

func readUpload(fileHeader *multipart.FileHeader, maxBytes int64) (string, error) {
	if fileHeader.Size > maxBytes {
		return "", errors.New("file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", errors.New("failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", errors.New("failed to read upload")
	}
	if int64(len(data)) > maxBytes {
		return "", errors.New("file too large")
	}

	return string(data), nil
}
