package models

import "time"

// Folder is a node in the single-parent hierarchy. MasterFolderID is the
// parent; nil means the folder sits at the owner's root. The parent graph
// for any owner must stay acyclic: every ancestor chain terminates at nil.
type Folder struct {
	ID             string    `json:"id" db:"id"`
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	MasterFolderID *string   `json:"master_folder_id" db:"master_folder_id"`
	Name           string    `json:"name" db:"name"`
	Files          []File    `json:"files,omitempty"` // membership, loaded on demand
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
