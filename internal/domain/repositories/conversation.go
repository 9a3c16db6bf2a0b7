package repositories

import (
	"context"

	"siteforge/internal/domain/models"
)

// MessageRepository is the append-only conversation log.
type MessageRepository interface {
	// Append adds a message to a project's log
	Append(ctx context.Context, message *models.Message) error

	// ListByProject retrieves a project's log in insertion order
	ListByProject(ctx context.Context, projectID string) ([]models.Message, error)
}
