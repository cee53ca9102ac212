// Package config provides configuration management for the Raceday application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Scorer    ScorerConfig    `mapstructure:"scorer" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Retention RetentionConfig `mapstructure:"retention"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host            string  `mapstructure:"host" validate:"required"`
	Port            int     `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxUploadBytes  int64   `mapstructure:"max_upload_bytes" validate:"required,gt=0"`
	UploadRateLimit float64 `mapstructure:"upload_rate_limit" validate:"required,gt=0"`
	UploadBurst     int     `mapstructure:"upload_burst" validate:"required,gt=0"`
}

// ScorerConfig represents the external analyzer process configuration
type ScorerConfig struct {
	Command        string   `mapstructure:"command" validate:"required"`
	Args           []string `mapstructure:"args"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTLHours   int    `mapstructure:"token_ttl_hours" validate:"required,gt=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// RetentionConfig represents the optional meeting retention job
type RetentionConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"omitempty,gt=0"`
	Schedule   string `mapstructure:"schedule"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetListenAddr returns the HTTP server listen address
func (c *Config) GetListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetScorerTimeout returns the analyzer timeout as a duration
func (c *Config) GetScorerTimeout() time.Duration {
	return time.Duration(c.Scorer.TimeoutSeconds) * time.Second
}

// GetTokenTTL returns the JWT token lifetime as a duration
func (c *Config) GetTokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// GetAuthCacheTTL returns the authenticated-user cache lifetime
func (c *Config) GetAuthCacheTTL() time.Duration {
	return time.Duration(c.Auth.CacheTTLSeconds) * time.Second
}

// GetRetentionMaxAge returns the meeting retention age as a duration
func (c *Config) GetRetentionMaxAge() time.Duration {
	return time.Duration(c.Retention.MaxAgeDays) * 24 * time.Hour
}

// GetMetricsAddr returns the metrics endpoint listen address
func (c *Config) GetMetricsAddr() string {
	return fmt.Sprintf(":%d", c.Metrics.Port)
}
