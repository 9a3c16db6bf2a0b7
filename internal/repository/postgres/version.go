package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"siteforge/internal/domain"
	"siteforge/internal/domain/models"
	"siteforge/internal/domain/repositories"
)

// PostgresVersionRepository implements the VersionRepository interface.
// The table is append-only: no update or delete statements exist here.
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create appends a new version snapshot
func (r *PostgresVersionRepository) Create(ctx context.Context, version *models.Version) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, code, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		version.ID,
		version.ProjectID,
		version.Code,
		version.Description,
		version.CreatedAt,
	).Scan(&version.CreatedAt)

	if err != nil {
		return fmt.Errorf("create version: %w", err)
	}

	return nil
}

// GetByID retrieves a version scoped to its project
func (r *PostgresVersionRepository) GetByID(ctx context.Context, projectID, versionID string) (*models.Version, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, code, description, created_at
		FROM %s
		WHERE id = $1 AND project_id = $2
	`, r.tables.Versions)

	var version models.Version
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, versionID, projectID).Scan(
		&version.ID,
		&version.ProjectID,
		&version.Code,
		&version.Description,
		&version.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s: %w", versionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &version, nil
}

// ListByProject retrieves all versions for a project in insertion order
func (r *PostgresVersionRepository) ListByProject(ctx context.Context, projectID string) ([]models.Version, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, code, description, created_at
		FROM %s
		WHERE project_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.Version
	for rows.Next() {
		var version models.Version
		err := rows.Scan(
			&version.ID,
			&version.ProjectID,
			&version.Code,
			&version.Description,
			&version.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	if versions == nil {
		versions = []models.Version{}
	}

	return versions, nil
}
