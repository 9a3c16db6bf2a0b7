package handler

import (
	"log/slog"
	"net/http"

	"siteforge/internal/domain/services"
	"siteforge/internal/httputil"
)

// RevisionHandler handles revision HTTP requests
type RevisionHandler struct {
	revisionService services.RevisionService
	logger          *slog.Logger
}

// NewRevisionHandler creates a new revision handler
func NewRevisionHandler(revisionService services.RevisionService, logger *slog.Logger) *RevisionHandler {
	return &RevisionHandler{
		revisionService: revisionService,
		logger:          logger,
	}
}

// MakeRevision submits one revision instruction for a project
// POST /api/projects/{id}/revisions
func (h *RevisionHandler) MakeRevision(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	var req services.RevisionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = userID
	req.ProjectID = projectID

	if err := h.revisionService.MakeRevision(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "changes made successfully",
	})
}
