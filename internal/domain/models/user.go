package models

import "time"

// User is the authenticated principal as supplied by the identity provider.
// The core trusts (ID, DisplayName) as given.
type User struct {
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
