package handler

import (
	"log/slog"
	"net/http"

	"siteforge/internal/domain/services"
	"siteforge/internal/httputil"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService services.ProjectService
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService services.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// HealthCheck responds to health probes
// GET /health
func (h *ProjectHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateProject creates a new project
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = userID

	project, err := h.projectService.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, project)
}

// ListProjects retrieves all projects for the user
// GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	projects, err := h.projectService.ListProjects(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// GetPreview retrieves a project with its versions and conversation log
// GET /api/projects/{id}/preview
func (h *ProjectHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	preview, err := h.projectService.GetPreview(r.Context(), userID, projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, preview)
}

// DeleteProject deletes a project
// DELETE /api/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), userID, projectID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Rollback points a project back at an earlier version
// POST /api/projects/{id}/rollback/{versionId}
func (h *ProjectHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	projectID := r.PathValue("id")
	versionID := r.PathValue("versionId")
	if projectID == "" || versionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID and version ID are required")
		return
	}

	if err := h.projectService.Rollback(r.Context(), userID, projectID, versionID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "version rolled back",
	})
}

// Save overwrites the project's current code directly (manual edit path)
// PUT /api/projects/{id}/code
func (h *ProjectHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	var req services.SaveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = userID
	req.ProjectID = projectID

	if err := h.projectService.Save(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "project saved successfully",
	})
}

// TogglePublish flips a project's publish flag
// POST /api/projects/{id}/publish
func (h *ProjectHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	published, err := h.projectService.TogglePublish(r.Context(), userID, projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{
		"is_published": published,
	})
}

// ListPublished lists all published projects
// GET /api/published
func (h *ProjectHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListPublished(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// GetPublishedCode returns the current code of a published project
// GET /api/published/{id}
func (h *ProjectHandler) GetPublishedCode(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	code, err := h.projectService.GetPublishedCode(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"code": code,
	})
}
