// Package main provides a CLI for creating user accounts.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/raceday/internal/auth"
	"github.com/yourusername/raceday/internal/config"
	"github.com/yourusername/raceday/internal/database"
	"github.com/yourusername/raceday/internal/models"
	"github.com/yourusername/raceday/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		username   = flag.String("username", "", "Username for the new account")
		password   = flag.String("password", "", "Password for the new account")
		isAdmin    = flag.Bool("admin", false, "Grant admin privileges")
	)
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.CreateSchema(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	users := repository.NewPostgresUserRepository(db)
	user := &models.User{
		ID:           uuid.New(),
		Username:     *username,
		PasswordHash: hash,
		IsAdmin:      *isAdmin,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("Created user %s (admin=%v, id=%s)", user.Username, user.IsAdmin, user.ID)
}
