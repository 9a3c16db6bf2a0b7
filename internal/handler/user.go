package handler

import (
	"log/slog"
	"net/http"

	"siteforge/internal/domain/services"
	"siteforge/internal/httputil"
)

// UserHandler handles credit HTTP requests
type UserHandler struct {
	creditService services.CreditService
	logger        *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(creditService services.CreditService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		creditService: creditService,
		logger:        logger,
	}
}

// GetCredits returns the authenticated user's credit balance
// GET /api/users/me/credits
func (h *UserHandler) GetCredits(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	balance, err := h.creditService.Balance(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{
		"credits": balance,
	})
}

// purchaseRequest is the credit purchase request body
type purchaseRequest struct {
	Amount int `json:"amount"`
}

// PurchaseCredits adds credits to the authenticated user's balance
// POST /api/users/me/credits/purchase
func (h *UserHandler) PurchaseCredits(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req purchaseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance, err := h.creditService.Purchase(r.Context(), userID, req.Amount)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{
		"credits": balance,
	})
}
