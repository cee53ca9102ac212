// Package auth provides password verification and JWT session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/raceday/internal/models"
	"github.com/yourusername/raceday/internal/repository"
)

var (
	// ErrInvalidCredentials indicates a failed username/password check
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken indicates a missing, expired or tampered token
	ErrInvalidToken = errors.New("invalid token")
)

// Claims extends jwt.RegisteredClaims with application-specific fields.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Service issues and verifies session tokens. Verified users are cached
// briefly to keep per-request auth lookups off the database; meeting reads
// themselves are never cached.
type Service struct {
	users     repository.UserRepository
	secret    []byte
	tokenTTL  time.Duration
	userCache *cache.Cache
	logger    *logrus.Logger
}

// NewService creates a new auth service
func NewService(users repository.UserRepository, secret []byte, tokenTTL, cacheTTL time.Duration, logger *logrus.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		users:     users,
		secret:    secret,
		tokenTTL:  tokenTTL,
		userCache: cache.New(cacheTTL, 2*cacheTTL),
		logger:    logger,
	}
}

// HashPassword returns a bcrypt hash for storage
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Login validates credentials and returns a signed token with the user.
// Unknown usernames, inactive accounts and wrong passwords all surface as
// the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// login still succeeds; the timestamp is informational
		s.logger.WithError(err).WithField("username", username).Warn("Failed to update last login")
	}

	claims := &Claims{
		Username: user.Username,
		UserID:   user.ID.String(),
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, user, nil
}

// VerifyToken validates a bearer token and resolves it to an active user
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	return user, nil
}

// lookupUser resolves a user by ID through the short-lived cache
func (s *Service) lookupUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	key := userID.String()
	if cached, found := s.userCache.Get(key); found {
		if user, ok := cached.(*models.User); ok {
			return user, nil
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.userCache.Set(key, user, cache.DefaultExpiration)
	return user, nil
}
