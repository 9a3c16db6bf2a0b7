package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"siteforge/internal/auth"
	"siteforge/internal/config"
	"siteforge/internal/handler"
	"siteforge/internal/llm"
	"siteforge/internal/middleware"
	"siteforge/internal/repository/postgres"
	"siteforge/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for the auth collaborator
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	messageRepo := postgres.NewMessageRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Generation client (OpenAI-compatible endpoint)
	completer := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)

	// Create services
	revisionService := service.NewRevisionService(
		userRepo,
		projectRepo,
		versionRepo,
		messageRepo,
		completer,
		txManager,
		cfg.RevisionCost,
		cfg.LLMTimeout,
		logger,
	)
	projectService := service.NewProjectService(projectRepo, versionRepo, messageRepo, txManager, logger)
	creditService := service.NewCreditService(userRepo, logger)

	// Create handlers
	revisionHandler := handler.NewRevisionHandler(revisionService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	userHandler := handler.NewUserHandler(creditService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", projectHandler.HealthCheck)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.DeleteProject)
	mux.HandleFunc("GET /api/projects/{id}/preview", projectHandler.GetPreview)
	mux.HandleFunc("PUT /api/projects/{id}/code", projectHandler.Save)
	mux.HandleFunc("POST /api/projects/{id}/publish", projectHandler.TogglePublish)
	mux.HandleFunc("POST /api/projects/{id}/rollback/{versionId}", projectHandler.Rollback)

	// Revision route
	mux.HandleFunc("POST /api/projects/{id}/revisions", revisionHandler.MakeRevision)

	// Published routes (no auth)
	mux.HandleFunc("GET /api/published", projectHandler.ListPublished)
	mux.HandleFunc("GET /api/published/{id}", projectHandler.GetPublishedCode)

	// Credit routes
	mux.HandleFunc("GET /api/users/me/credits", userHandler.GetCredits)
	mux.HandleFunc("POST /api/users/me/credits/purchase", userHandler.PurchaseCredits)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Recovery -> Auth -> Routes
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server. The write timeout leaves headroom for the two
	// sequential generation calls behind a revision request.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
