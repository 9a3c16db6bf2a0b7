package repositories

import (
	"context"

	"siteforge/internal/domain/models"
)

// UserRepository handles user persistence and the credit ledger.
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Create inserts a new user row
	Create(ctx context.Context, user *models.User) error

	// DebitCredits atomically decrements the user's balance by amount.
	// The affordability check and the decrement are a single conditional
	// update, so concurrent debits cannot drive the balance negative.
	// Returns InsufficientCreditsError when the balance is too low.
	DebitCredits(ctx context.Context, id string, amount int) error

	// CreditCredits increments the user's balance by amount (refund/purchase)
	CreditCredits(ctx context.Context, id string, amount int) error
}
