package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/raceday/internal/models"
)

const userContextKey = "auth_user"

// requireAuth resolves the bearer token to an active user and stashes it on
// the request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		user, err := s.auth.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// currentUser returns the authenticated user placed by requireAuth
func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// uploadLimiters tracks a per-user token bucket for the upload endpoint.
// Analyzer runs are expensive; a single user retrying in a tight loop must
// not starve everyone else.
type uploadLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newUploadLimiters(perSecond float64, burst int) *uploadLimiters {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &uploadLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (u *uploadLimiters) get(key string) *rate.Limiter {
	u.mu.Lock()
	defer u.mu.Unlock()

	limiter, ok := u.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(u.limit, u.burst)
		u.limiters[key] = limiter
	}
	return limiter
}

// rateLimitUploads applies the per-user bucket to the upload route
func (s *Server) rateLimitUploads(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		if !s.limiters.get(user.ID.String()).Allow() {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many uploads, slow down")
		}

		return next(c)
	}
}

// requestLogger logs each request with latency and status
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		s.logger.WithFields(logrus.Fields{
			"method":  c.Request().Method,
			"path":    c.Request().URL.Path,
			"status":  c.Response().Status,
			"latency": time.Since(start).String(),
		}).Info("Request handled")

		return err
	}
}
