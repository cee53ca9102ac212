package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceday/internal/models"
)

const testSecret = "test-secret-at-least-16-chars"

// MockUserRepository mocks user data access
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func newTestService(users *MockUserRepository) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(users, []byte(testSecret), time.Hour, time.Minute, log)
}

func newTestUser(t *testing.T, password string, active bool) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Username:     "punter",
		PasswordHash: hash,
		IsActive:     active,
	}
}

// TestHashPassword tests hashing and the empty-password guard
func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	_, err = HashPassword("")
	assert.Error(t, err)
}

// TestLoginSuccess tests the happy login path
func TestLoginSuccess(t *testing.T) {
	users := &MockUserRepository{}
	user := newTestUser(t, "hunter2", true)

	users.On("GetByUsername", mock.Anything, "punter").Return(user, nil)
	users.On("UpdateLastLogin", mock.Anything, user.ID, mock.Anything).Return(nil)

	svc := newTestService(users)
	token, got, err := svc.Login(context.Background(), "punter", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)
	users.AssertExpectations(t)
}

// TestLoginFailures tests that every rejection reason looks identical
func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*MockUserRepository) *models.User
		password string
	}{
		{
			name: "unknown username",
			setup: func(users *MockUserRepository) *models.User {
				users.On("GetByUsername", mock.Anything, "punter").Return(nil, models.ErrNotFound)
				return nil
			},
			password: "hunter2",
		},
		{
			name: "wrong password",
			setup: func(users *MockUserRepository) *models.User {
				user := newTestUser(t, "hunter2", true)
				users.On("GetByUsername", mock.Anything, "punter").Return(user, nil)
				return user
			},
			password: "wrong",
		},
		{
			name: "inactive account",
			setup: func(users *MockUserRepository) *models.User {
				user := newTestUser(t, "hunter2", false)
				users.On("GetByUsername", mock.Anything, "punter").Return(user, nil)
				return user
			},
			password: "hunter2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUserRepository{}
			tt.setup(users)

			svc := newTestService(users)
			token, got, err := svc.Login(context.Background(), "punter", tt.password)
			assert.Empty(t, token)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

// TestLoginSurvivesLastLoginFailure tests that the audit timestamp is
// best-effort only.
func TestLoginSurvivesLastLoginFailure(t *testing.T) {
	users := &MockUserRepository{}
	user := newTestUser(t, "hunter2", true)

	users.On("GetByUsername", mock.Anything, "punter").Return(user, nil)
	users.On("UpdateLastLogin", mock.Anything, user.ID, mock.Anything).Return(assert.AnError)

	svc := newTestService(users)
	token, _, err := svc.Login(context.Background(), "punter", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

// TestVerifyTokenRoundTrip tests that a freshly issued token verifies back
// to the same user.
func TestVerifyTokenRoundTrip(t *testing.T) {
	users := &MockUserRepository{}
	user := newTestUser(t, "hunter2", true)

	users.On("GetByUsername", mock.Anything, "punter").Return(user, nil)
	users.On("UpdateLastLogin", mock.Anything, user.ID, mock.Anything).Return(nil)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	svc := newTestService(users)
	token, _, err := svc.Login(context.Background(), "punter", "hunter2")
	require.NoError(t, err)

	got, err := svc.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "punter", got.Username)
}

// TestVerifyTokenUsesCache tests that repeated verification hits the
// database only once.
func TestVerifyTokenUsesCache(t *testing.T) {
	users := &MockUserRepository{}
	user := newTestUser(t, "hunter2", true)

	users.On("GetByUsername", mock.Anything, "punter").Return(user, nil)
	users.On("UpdateLastLogin", mock.Anything, user.ID, mock.Anything).Return(nil)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	svc := newTestService(users)
	token, _, err := svc.Login(context.Background(), "punter", "hunter2")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.VerifyToken(context.Background(), token)
		require.NoError(t, err)
	}
	users.AssertExpectations(t)
}

// TestVerifyTokenRejections tests invalid token shapes
func TestVerifyTokenRejections(t *testing.T) {
	users := &MockUserRepository{}
	svc := newTestService(users)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.VerifyToken(context.Background(), tt.token)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

// TestVerifyTokenWrongSecret tests that tokens signed elsewhere are rejected
func TestVerifyTokenWrongSecret(t *testing.T) {
	users := &MockUserRepository{}
	user := newTestUser(t, "hunter2", true)
	users.On("GetByUsername", mock.Anything, "punter").Return(user, nil)
	users.On("UpdateLastLogin", mock.Anything, user.ID, mock.Anything).Return(nil)

	issuer := newTestService(users)
	token, _, err := issuer.Login(context.Background(), "punter", "hunter2")
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	verifier := NewService(users, []byte("a-completely-different-secret"), time.Hour, time.Minute, log)

	got, err := verifier.VerifyToken(context.Background(), token)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestVerifyTokenDeactivatedUser tests that a valid token for a since-
// deactivated account is rejected.
func TestVerifyTokenDeactivatedUser(t *testing.T) {
	users := &MockUserRepository{}
	user := newTestUser(t, "hunter2", true)

	users.On("GetByUsername", mock.Anything, "punter").Return(user, nil)
	users.On("UpdateLastLogin", mock.Anything, user.ID, mock.Anything).Return(nil)

	svc := newTestService(users)
	token, _, err := svc.Login(context.Background(), "punter", "hunter2")
	require.NoError(t, err)

	deactivated := *user
	deactivated.IsActive = false
	users.On("GetByID", mock.Anything, user.ID).Return(&deactivated, nil)

	got, err := svc.VerifyToken(context.Background(), token)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestVerifyTokenDeletedUser tests that a valid token for a deleted account
// is rejected.
func TestVerifyTokenDeletedUser(t *testing.T) {
	users := &MockUserRepository{}
	user := newTestUser(t, "hunter2", true)

	users.On("GetByUsername", mock.Anything, "punter").Return(user, nil)
	users.On("UpdateLastLogin", mock.Anything, user.ID, mock.Anything).Return(nil)
	users.On("GetByID", mock.Anything, user.ID).Return(nil, models.ErrNotFound)

	svc := newTestService(users)
	token, _, err := svc.Login(context.Background(), "punter", "hunter2")
	require.NoError(t, err)

	got, err := svc.VerifyToken(context.Background(), token)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
