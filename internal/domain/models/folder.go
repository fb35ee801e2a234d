package models

import (
	"time"
)

// FolderType distinguishes plain folders from assignment folders, which
// carry a deadline and grade weighting.
type FolderType string

const (
	FolderTypeFolder     FolderType = "folder"
	FolderTypeAssignment FolderType = "assignment"
)

// Folder is a single-level container for documents. Folders have no parent
// folder field on purpose: the hierarchy is exactly two tiers (root and one
// folder deep), so nesting is impossible by construction.
//
// A folder's children are derived, never stored: all documents whose
// FolderID equals the folder's ID, ordered by position.
type Folder struct {
	ID           string     `json:"id" db:"id"`
	CollectionID string     `json:"collection_id" db:"collection_id"`
	Name         string     `json:"name" db:"name"`
	Type         FolderType `json:"type" db:"type"`
	IsExpanded   bool       `json:"is_expanded" db:"is_expanded"`
	Position     int        `json:"position" db:"position"`
	Deadline     *time.Time `json:"deadline,omitempty" db:"deadline"`
	Weighting    *float64   `json:"weighting,omitempty" db:"weighting"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
