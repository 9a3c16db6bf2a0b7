package repositories

import (
	"context"

	"siteforge/internal/domain/models"
)

// VersionRepository is the append-only store of code snapshots.
// Rows are never updated or deleted here; project deletion cascades.
type VersionRepository interface {
	// Create appends a new version. No validation of code content.
	Create(ctx context.Context, version *models.Version) error

	// GetByID retrieves a version scoped to its project
	GetByID(ctx context.Context, projectID, versionID string) (*models.Version, error)

	// ListByProject retrieves all versions for a project in insertion order
	ListByProject(ctx context.Context, projectID string) ([]models.Version, error)
}
