package models

import "time"

// User is an account that owns projects and holds a credit balance.
// The credits column is the single source of truth for the ledger; it is
// never allowed to go negative (enforced by the conditional debit update,
// backed by a CHECK constraint).
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Credits   int       `json:"credits" db:"credits"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
