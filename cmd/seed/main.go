package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/flowboard/flowboard-api/config"
	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
	"github.com/flowboard/flowboard-api/internal/infrastructure/mongodb"
	"github.com/flowboard/flowboard-api/pkg/helpers"
)

// Seeds the SUPERADMIN account from SUPERADMIN_EMAIL / SUPERADMIN_PASSWORD.
// Idempotent: an existing account is promoted instead of duplicated.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		log.Fatal("SUPERADMIN_EMAIL and SUPERADMIN_PASSWORD are required")
	}

	ctx := context.Background()
	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)

	existing, err := users.GetByEmail(ctx, cfg.SuperAdminEmail)
	if err == nil {
		if existing.IsSuperAdmin() {
			fmt.Printf("superadmin already exists: %s\n", existing.Email)
			return
		}
		existing.Role = entity.RoleSuperAdmin
		if err := users.Update(ctx, existing); err != nil {
			log.Fatalf("failed to promote user: %v", err)
		}
		fmt.Printf("promoted existing user to superadmin: %s\n", existing.Email)
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("failed to look up user: %v", err)
	}

	hash, err := helpers.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{
		Name:         cfg.SuperAdminName,
		Email:        cfg.SuperAdminEmail,
		PasswordHash: hash,
		AuthProvider: entity.ProviderEmail,
		Role:         entity.RoleSuperAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("failed to create superadmin: %v", err)
	}
	fmt.Printf("created superadmin: id=%s email=%s\n", u.ID, u.Email)
}
