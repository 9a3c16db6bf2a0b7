package handler

import (
	"errors"
	"net/http"

	"siteforge/internal/domain"
	"siteforge/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var insufficientErr *domain.InsufficientCreditsError
	if errors.As(err, &insufficientErr) {
		httputil.RespondErrorWithExtras(w, insufficientErr.StatusCode(), insufficientErr.Error(), map[string]interface{}{
			"required": insufficientErr.Required,
			"balance":  insufficientErr.Balance,
		})
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
