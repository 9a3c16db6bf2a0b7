package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"siteforge/internal/domain"
	"siteforge/internal/domain/models"
	"siteforge/internal/domain/repositories"
	"siteforge/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const msgRolledBack = "I've rolled back to the previous version of your website!"

// MaxProjectNameLength bounds project names
const MaxProjectNameLength = 120

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
	versionRepo repositories.VersionRepository
	messageRepo repositories.MessageRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	versionRepo repositories.VersionRepository,
	messageRepo repositories.MessageRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		versionRepo: versionRepo,
		messageRepo: messageRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateProject creates a new empty project
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project := &models.Project{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"user_id", req.UserID,
	)

	return project, nil
}

// ListProjects retrieves all projects for a user
func (s *projectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projectRepo.List(ctx, userID)
}

// GetPreview retrieves a project with its full version history and
// conversation log for the editor view
func (s *projectService) GetPreview(ctx context.Context, userID, projectID string) (*services.ProjectPreview, error) {
	project, err := s.projectRepo.GetOwned(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &services.ProjectPreview{
		Project:  project,
		Versions: versions,
		Messages: messages,
	}, nil
}

// DeleteProject removes a project; versions and messages cascade
func (s *projectService) DeleteProject(ctx context.Context, userID, projectID string) error {
	if err := s.projectRepo.Delete(ctx, projectID, userID); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		"id", projectID,
		"user_id", userID,
	)

	return nil
}

// Rollback points the project back at an earlier version. The ownership and
// version-membership checks are joined: a project owned by someone else and
// a missing project are indistinguishable to the caller.
func (s *projectService) Rollback(ctx context.Context, userID, projectID, versionID string) error {
	if _, err := s.projectRepo.GetOwned(ctx, projectID, userID); err != nil {
		return err
	}

	version, err := s.versionRepo.GetByID(ctx, projectID, versionID)
	if err != nil {
		return err
	}

	// Pointer update and transcript notice land together
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.projectRepo.SetCurrent(txCtx, projectID, version.Code, &version.ID); err != nil {
			return err
		}
		return s.messageRepo.Append(txCtx, &models.Message{
			ID:        uuid.NewString(),
			ProjectID: projectID,
			Role:      models.RoleAssistant,
			Content:   msgRolledBack,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	s.logger.Info("project rolled back",
		"project_id", projectID,
		"version_id", versionID,
		"user_id", userID,
	)

	return nil
}

// Save overwrites current_code directly and clears the version pointer.
// Deliberate escape hatch for manual edits: no version snapshot is taken,
// so provenance is lost until the next revision commits.
func (s *projectService) Save(ctx context.Context, req *services.SaveRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Code, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.projectRepo.GetOwned(ctx, req.ProjectID, req.UserID); err != nil {
		return err
	}

	if err := s.projectRepo.SetCurrent(ctx, req.ProjectID, req.Code, nil); err != nil {
		return fmt.Errorf("save project code: %w", err)
	}

	s.logger.Info("project code saved",
		"project_id", req.ProjectID,
		"user_id", req.UserID,
		"code_bytes", len(req.Code),
	)

	return nil
}

// TogglePublish flips the publish flag and returns the new state
func (s *projectService) TogglePublish(ctx context.Context, userID, projectID string) (bool, error) {
	project, err := s.projectRepo.GetOwned(ctx, projectID, userID)
	if err != nil {
		return false, err
	}

	published := !project.IsPublished
	if err := s.projectRepo.SetPublished(ctx, projectID, published); err != nil {
		return false, err
	}

	s.logger.Info("project publish toggled",
		"project_id", projectID,
		"user_id", userID,
		"is_published", published,
	)

	return published, nil
}

// ListPublished retrieves all published projects
func (s *projectService) ListPublished(ctx context.Context) ([]models.Project, error) {
	return s.projectRepo.ListPublished(ctx)
}

// GetPublishedCode returns the current code of a published project.
// Unpublished projects and projects with no code yet are not found, so the
// public endpoint leaks nothing about drafts.
func (s *projectService) GetPublishedCode(ctx context.Context, projectID string) (string, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return "", err
	}

	if !project.IsPublished || project.CurrentCode == "" {
		return "", fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}

	return project.CurrentCode, nil
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, MaxProjectNameLength),
			validation.By(notBlank),
		),
	)
}
