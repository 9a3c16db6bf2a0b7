package main

import (
	"database/sql"
	"fmt"
	"log"

	"siteforge/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	// Same prefix resolution as the server, so a TABLE_PREFIX override
	// targets the tables the app actually uses
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	if cfg.Environment == "prod" {
		log.Fatal("BLOCKED: refusing to drop production tables")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	prefix := cfg.TablePrefix
	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %sconversation_messages CASCADE;
		DROP TABLE IF EXISTS %sversions CASCADE;
		DROP TABLE IF EXISTS %sprojects CASCADE;
		DROP TABLE IF EXISTS %susers CASCADE;
	`, prefix, prefix, prefix, prefix)

	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	log.Printf("Dropped tables with prefix %q", prefix)
}
