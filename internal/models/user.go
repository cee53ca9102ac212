package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can upload meetings, with a bcrypt-hashed password
type User struct {
	ID           uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	Username     string     `db:"username" json:"username" validate:"required"`
	PasswordHash string     `db:"password_hash" json:"-" validate:"required"`
	IsAdmin      bool       `db:"is_admin" json:"is_admin"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
