package models

import "time"

// Version is an immutable full snapshot of a project's generated markup.
// Rows are append-only; history is full snapshots, not diffs.
type Version struct {
	ID          string    `json:"id" db:"id"`
	ProjectID   string    `json:"project_id" db:"project_id"`
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
