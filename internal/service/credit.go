package service

import (
	"context"
	"fmt"
	"log/slog"

	"siteforge/internal/domain"
	"siteforge/internal/domain/repositories"
	"siteforge/internal/domain/services"
)

// creditService implements the CreditService interface
type creditService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewCreditService creates a new credit service
func NewCreditService(userRepo repositories.UserRepository, logger *slog.Logger) services.CreditService {
	return &creditService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Balance returns the user's current credit balance
func (s *creditService) Balance(ctx context.Context, userID string) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Credits, nil
}

// Purchase adds credits to the user's balance and returns the new balance.
// Payment settlement belongs to the payment collaborator; this only moves
// the ledger once that collaborator says so.
func (s *creditService) Purchase(ctx context.Context, userID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	if err := s.userRepo.CreditCredits(ctx, userID, amount); err != nil {
		return 0, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("credits purchased",
		"user_id", userID,
		"amount", amount,
		"balance", user.Credits,
	)

	return user.Credits, nil
}
