package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"siteforge/internal/domain/models"
	"siteforge/internal/domain/repositories"
)

// PostgresMessageRepository implements the MessageRepository interface.
// Append-only: messages are never mutated once written.
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(config *RepositoryConfig) repositories.MessageRepository {
	return &PostgresMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Append adds a message to a project's conversation log
func (r *PostgresMessageRepository) Append(ctx context.Context, message *models.Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		message.ID,
		message.ProjectID,
		message.Role,
		message.Content,
		message.CreatedAt,
	).Scan(&message.CreatedAt)

	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	return nil
}

// ListByProject retrieves a project's conversation log in insertion order
func (r *PostgresMessageRepository) ListByProject(ctx context.Context, projectID string) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, role, content, created_at
		FROM %s
		WHERE project_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var message models.Message
		err := rows.Scan(
			&message.ID,
			&message.ProjectID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	if messages == nil {
		messages = []models.Message{}
	}

	return messages, nil
}
