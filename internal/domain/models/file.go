package models

import "time"

// File is the metadata row for a stored binary object. ObjectID doubles as
// the opaque storage key. Backed is true only once the payload is durably
// committed to object storage; an unbacked file must never be exposed via a
// signed URL.
type File struct {
	ObjectID    string    `json:"object_id" db:"object_id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = not in any folder
	FileName    string    `json:"file_name" db:"file_name"`
	Bucket      string    `json:"bucket" db:"bucket"`
	ByteSize    int64     `json:"byte_size" db:"byte_size"`
	ContentType string    `json:"content_type" db:"content_type"`
	Backed      bool      `json:"backed" db:"backed"`
	// UserManageable is false for system-managed assets such as article
	// placeholder pictures; those cannot be deleted or re-parented by users.
	UserManageable bool      `json:"user_manageable" db:"user_manageable"`
	Public         bool      `json:"public" db:"public"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
