package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"siteforge/internal/domain"
	"siteforge/internal/domain/models"
	"siteforge/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, credits, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Credits,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// Create inserts a new user row
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, credits, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Credits,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// DebitCredits atomically decrements the balance. The credits >= amount
// predicate makes the read-then-write a single row update, so two
// concurrent revisions against the same account cannot both pass the
// affordability check and drive the balance negative.
func (r *PostgresUserRepository) DebitCredits(ctx context.Context, id string, amount int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET credits = credits - $1, updated_at = NOW()
		WHERE id = $2 AND credits >= $1
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("debit credits: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Either the user is gone or the balance is too low
		user, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		return &domain.InsufficientCreditsError{
			Required: amount,
			Balance:  user.Credits,
		}
	}

	return nil
}

// CreditCredits increments the balance (refund or purchase)
func (r *PostgresUserRepository) CreditCredits(ctx context.Context, id string, amount int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET credits = credits + $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("credit credits: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
