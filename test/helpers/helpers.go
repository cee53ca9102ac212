// Package helpers provides shared fixtures for integration and e2e tests.
package helpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceday/internal/config"
	"github.com/yourusername/raceday/internal/database"
	"github.com/yourusername/raceday/internal/models"
)

// TestDatabaseConfig reads the test database location from the environment,
// falling back to a local default.
func TestDatabaseConfig() *config.DatabaseConfig {
	cfg := &config.DatabaseConfig{
		Host:           "localhost",
		Port:           5432,
		Name:           "raceday_test",
		User:           "test",
		Password:       "test",
		SSLMode:        "disable",
		MaxConnections: 5,
	}
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("TEST_DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Port = n
		}
	}
	if name := os.Getenv("TEST_DB_NAME"); name != "" {
		cfg.Name = name
	}
	return cfg
}

// SetupTestDB connects to the test database and creates the schema. Tests
// that cannot reach a database are skipped rather than failed.
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, TestDatabaseConfig())
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	require.NoError(t, db.CreateSchema(ctx), "failed to create schema")
	return db
}

// TeardownTestDB truncates the data tables and closes the connection
func TeardownTestDB(t *testing.T, db *database.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{"predictions", "horses", "races", "meetings", "users"}
	for _, table := range tables {
		_, err := db.GetPool().Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate %s", table)
	}

	db.Close()
}

// SampleCSV returns a small but realistic race-day CSV
func SampleCSV() string {
	rows := []string{
		"race number,distance,class,track condition,horse name,barrier,weight,jockey,trainer,form",
		"1,1200m,Maiden,Good 4,Alpha,3,56.5,J Smith,T Jones,x1124",
		"1,1200m,Maiden,Good 4,Bravo,7,54,K Lee,T Jones,21x43",
		"2,1400m,BM72,Good 4,Charlie,1,58,J Smith,P Brown,11x22",
	}
	return strings.Join(rows, "\n")
}

// WriteFakeAnalyzer writes a shell script that consumes stdin and emits a
// fixed result set, and returns its path.
func WriteFakeAnalyzer(t *testing.T, output string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "analyzer.sh")
	script := fmt.Sprintf("#!/bin/sh\ncat > /dev/null\ncat <<'RESULTS'\n%s\nRESULTS\n", output)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// NewTestUser inserts an active user and returns it
func NewTestUser(t *testing.T, db *database.DB) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Username:     fmt.Sprintf("tester-%s", uuid.NewString()[:8]),
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMye1VdLmLKkWnWy1S4M0kq0T3jF6gUceem",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.GetPool().Exec(ctx,
		`INSERT INTO users (id, username, password_hash, is_admin, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.PasswordHash, user.IsAdmin, user.IsActive, user.CreatedAt,
	)
	require.NoError(t, err, "failed to insert test user")
	return user
}
