package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"siteforge/internal/config"
	"siteforge/internal/domain/models"
	"siteforge/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	if cfg.Environment == "prod" && !*schemaOnly {
		log.Fatalf("BLOCKED: refusing to seed demo data in production environment")
	}

	log.Printf("Setting up database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if err := createSchema(ctx, pool, tables, cfg.SignupCredits); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Printf("Schema ready")

	if *schemaOnly {
		return
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables}
	userRepo := postgres.NewUserRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)

	// Seed a demo user and an empty project
	demoUser := &models.User{
		ID:        "demo-user",
		Name:      "Demo User",
		Email:     "demo@example.com",
		Credits:   cfg.SignupCredits,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := userRepo.Create(ctx, demoUser); err != nil {
		log.Printf("Demo user not created (may already exist): %v", err)
	} else {
		log.Printf("Seeded demo user %s with %d credits", demoUser.ID, demoUser.Credits)
	}

	demoProject := &models.Project{
		ID:        uuid.NewString(),
		UserID:    demoUser.ID,
		Name:      "My First Website",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := projectRepo.Create(ctx, demoProject); err != nil {
		log.Printf("Demo project not created: %v", err)
	} else {
		log.Printf("Seeded demo project %s", demoProject.ID)
	}
}

func createSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, defaultCredits int) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			credits INTEGER NOT NULL DEFAULT %[5]d CHECK (credits >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS %[2]s (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES %[1]s(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			current_code TEXT NOT NULL DEFAULT '',
			current_version_id UUID,
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS %[3]s (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
			code TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS %[3]s_project_idx ON %[3]s (project_id, created_at);

		CREATE TABLE IF NOT EXISTS %[4]s (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
			role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS %[4]s_project_idx ON %[4]s (project_id, created_at);
	`, tables.Users, tables.Projects, tables.Versions, tables.Messages, defaultCredits)

	_, err := pool.Exec(ctx, schema)
	return err
}
