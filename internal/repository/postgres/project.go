package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"siteforge/internal/domain"
	"siteforge/internal/domain/models"
	"siteforge/internal/domain/repositories"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const projectColumns = "id, user_id, name, current_code, current_version_id, is_published, created_at, updated_at"

func scanProject(row interface{ Scan(...interface{}) error }, project *models.Project) error {
	return row.Scan(
		&project.ID,
		&project.UserID,
		&project.Name,
		&project.CurrentCode,
		&project.CurrentVersionID,
		&project.IsPublished,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
}

// Create creates a new project
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, current_code, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.ID,
		project.UserID,
		project.Name,
		project.CurrentCode,
		project.IsPublished,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by ID regardless of owner
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, projectColumns, r.tables.Projects)

	var project models.Project
	executor := GetExecutor(ctx, r.pool)
	err := scanProject(executor.QueryRow(ctx, query, id), &project)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// GetOwned retrieves a project by ID scoped to its owner
func (r *PostgresProjectRepository) GetOwned(ctx context.Context, id, userID string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, projectColumns, r.tables.Projects)

	var project models.Project
	executor := GetExecutor(ctx, r.pool)
	err := scanProject(executor.QueryRow(ctx, query, id, userID), &project)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// List retrieves all projects for a user, ordered by updated_at DESC
func (r *PostgresProjectRepository) List(ctx context.Context, userID string) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, projectColumns, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		if err := scanProject(rows, &project); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	// Return empty slice instead of nil if no projects
	if projects == nil {
		projects = []models.Project{}
	}

	return projects, nil
}

// SetCurrent updates current_code and current_version_id in one statement
// so the pointer/code pair can never be observed half-moved.
func (r *PostgresProjectRepository) SetCurrent(ctx context.Context, id, code string, versionID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET current_code = $1, current_version_id = $2, updated_at = NOW()
		WHERE id = $3
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, code, versionID, id)
	if err != nil {
		return fmt.Errorf("set current version: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetPublished flips the publish flag
func (r *PostgresProjectRepository) SetPublished(ctx context.Context, id string, published bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_published = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, published, id)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListPublished retrieves all published projects with their owner's name
func (r *PostgresProjectRepository) ListPublished(ctx context.Context) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.user_id, p.name, p.current_code, p.current_version_id,
		       p.is_published, p.created_at, p.updated_at, u.name
		FROM %s p
		JOIN %s u ON u.id = p.user_id
		WHERE p.is_published = TRUE
		ORDER BY p.updated_at DESC
	`, r.tables.Projects, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list published projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		err := rows.Scan(
			&project.ID,
			&project.UserID,
			&project.Name,
			&project.CurrentCode,
			&project.CurrentVersionID,
			&project.IsPublished,
			&project.CreatedAt,
			&project.UpdatedAt,
			&project.OwnerName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan published project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate published projects: %w", err)
	}

	if projects == nil {
		projects = []models.Project{}
	}

	return projects, nil
}

// Delete removes a project; versions and conversation messages cascade
// via foreign keys.
func (r *PostgresProjectRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
