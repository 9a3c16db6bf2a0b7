package services

import (
	"context"

	"siteforge/internal/domain/models"
)

// CreateProjectRequest is the request to create a project
type CreateProjectRequest struct {
	UserID string `json:"-"`
	Name   string `json:"name"`
}

// SaveRequest is the direct-edit save path. It bypasses version history:
// current_code is overwritten and the version pointer cleared.
type SaveRequest struct {
	UserID    string `json:"-"`
	ProjectID string `json:"-"`
	Code      string `json:"code"`
}

// ProjectPreview bundles a project with its full history for the editor view
type ProjectPreview struct {
	Project  *models.Project  `json:"project"`
	Versions []models.Version `json:"versions"`
	Messages []models.Message `json:"messages"`
}

// ProjectService handles project CRUD, rollback, direct save, and the
// published read paths.
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
	GetPreview(ctx context.Context, userID, projectID string) (*ProjectPreview, error)
	DeleteProject(ctx context.Context, userID, projectID string) error

	// Rollback points the project back at an earlier version. No credit cost.
	Rollback(ctx context.Context, userID, projectID, versionID string) error

	// Save overwrites current_code and clears the version pointer
	Save(ctx context.Context, req *SaveRequest) error

	// TogglePublish flips the publish flag and returns the new state
	TogglePublish(ctx context.Context, userID, projectID string) (bool, error)

	// ListPublished returns all published projects with owner names
	ListPublished(ctx context.Context) ([]models.Project, error)

	// GetPublishedCode returns current_code for a published project.
	// Unpublished or empty projects surface as not found.
	GetPublishedCode(ctx context.Context, projectID string) (string, error)
}
