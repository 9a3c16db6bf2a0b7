package services

import "context"

// CreditService exposes the ledger read path and credit purchase.
// Debits are internal to the revision workflow and not exposed here.
type CreditService interface {
	// Balance returns the user's current credit balance
	Balance(ctx context.Context, userID string) (int, error)

	// Purchase adds credits and returns the new balance. Payment mechanics
	// live with the payment collaborator; this only moves the ledger.
	Purchase(ctx context.Context, userID string, amount int) (int, error)
}
