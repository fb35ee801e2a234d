package models

import (
	"time"
)

// Collection is a top-level workspace grouping folders and documents,
// analogous to a course or subject in the study app.
type Collection struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MixedOrder is the authoritative interleaved sequence of folder and
// document ids at the collection root. Folder-internal order is carried by
// document positions instead.
type MixedOrder struct {
	CollectionID string    `json:"collection_id" db:"collection_id"`
	ItemIDs      []string  `json:"item_ids" db:"item_ids"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Tree is the sidebar view of one collection: root items in mixed order,
// with each folder carrying its derived children.
type Tree struct {
	Collection *Collection `json:"collection"`
	Items      []TreeItem  `json:"items"`
}

// TreeItem is one root-level entry. Exactly one of Folder or Document is
// set; Children is populated only for folders.
type TreeItem struct {
	Folder   *Folder    `json:"folder,omitempty"`
	Document *Document  `json:"document,omitempty"`
	Children []Document `json:"children,omitempty"`
}
