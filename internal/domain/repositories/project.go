package repositories

import (
	"context"

	"siteforge/internal/domain/models"
)

// ProjectRepository handles project persistence.
type ProjectRepository interface {
	// Create inserts a new project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID regardless of owner
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// GetOwned retrieves a project by ID scoped to its owner
	GetOwned(ctx context.Context, id, userID string) (*models.Project, error)

	// List retrieves all projects for a user, newest first
	List(ctx context.Context, userID string) ([]models.Project, error)

	// SetCurrent updates current_code and current_version_id together.
	// versionID may be nil to clear provenance (direct-save path).
	SetCurrent(ctx context.Context, id, code string, versionID *string) error

	// SetPublished flips the publish flag
	SetPublished(ctx context.Context, id string, published bool) error

	// ListPublished retrieves all published projects with owner names
	ListPublished(ctx context.Context) ([]models.Project, error)

	// Delete removes a project; versions and messages cascade
	Delete(ctx context.Context, id, userID string) error
}
