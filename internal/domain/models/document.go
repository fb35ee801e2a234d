package models

import (
	"time"
)

// Document is a single file entry in a collection. FolderID is nil for
// root-level documents; documents never contain other items.
type Document struct {
	ID            string    `json:"id" db:"id"`
	CollectionID  string    `json:"collection_id" db:"collection_id"`
	FolderID      *string   `json:"folder_id" db:"folder_id"` // NULL = root level
	Name          string    `json:"name" db:"name"`
	Position      int       `json:"position" db:"position"`
	IsPlaceholder bool      `json:"is_placeholder" db:"is_placeholder"`
	IsLoading     bool      `json:"is_loading" db:"is_loading"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Label         *string   `json:"label,omitempty" db:"label"` // category tag, styling/suggestions only
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// RootLevel reports whether the document sits directly in the collection root.
func (d *Document) RootLevel() bool {
	return d.FolderID == nil
}
