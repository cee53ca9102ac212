package database

import (
	"context"
	"fmt"
)

// Schema statements are idempotent so startup can run them unconditionally.
// Deleting a meeting cascades down to races, horses and predictions.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		meeting_name TEXT NOT NULL,
		csv_data TEXT NOT NULL,
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS races (
		id UUID PRIMARY KEY,
		meeting_id UUID NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		race_number INTEGER NOT NULL,
		distance TEXT NOT NULL DEFAULT '',
		race_class TEXT NOT NULL DEFAULT '',
		track_condition TEXT NOT NULL DEFAULT '',
		UNIQUE (meeting_id, race_number)
	)`,
	`CREATE TABLE IF NOT EXISTS horses (
		id UUID PRIMARY KEY,
		race_id UUID NOT NULL REFERENCES races(id) ON DELETE CASCADE,
		position INTEGER NOT NULL DEFAULT 0,
		horse_name TEXT NOT NULL DEFAULT '',
		barrier INTEGER,
		weight NUMERIC(6,2),
		jockey TEXT NOT NULL DEFAULT '',
		trainer TEXT NOT NULL DEFAULT '',
		form TEXT NOT NULL DEFAULT '',
		csv_data JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id UUID PRIMARY KEY,
		horse_id UUID NOT NULL UNIQUE REFERENCES horses(id) ON DELETE CASCADE,
		score DOUBLE PRECISION NOT NULL DEFAULT 0,
		predicted_odds TEXT NOT NULL DEFAULT '',
		win_probability TEXT NOT NULL DEFAULT '',
		performance_component TEXT NOT NULL DEFAULT '',
		base_probability TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_user_id ON meetings(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_races_meeting_id ON races(meeting_id)`,
	`CREATE INDEX IF NOT EXISTS idx_horses_race_id ON horses(race_id)`,
}

// CreateSchema creates all tables and indexes if they do not exist
func (db *DB) CreateSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
