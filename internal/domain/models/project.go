package models

import "time"

// Project is a user-owned website. CurrentCode is what renders now;
// CurrentVersionID is provenance and may be nil after a direct save.
type Project struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"user_id" db:"user_id"`
	Name             string    `json:"name" db:"name"`
	CurrentCode      string    `json:"current_code" db:"current_code"`
	CurrentVersionID *string   `json:"current_version_id,omitempty" db:"current_version_id"`
	IsPublished      bool      `json:"is_published" db:"is_published"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	// OwnerName is populated only on published listings (joined from users)
	OwnerName string `json:"owner_name,omitempty" db:"-"`
}
