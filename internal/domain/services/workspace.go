package services

import (
	"context"
	"time"

	"binder/internal/domain/models"
	"binder/internal/engine/drag"
)

// WorkspaceService exposes the structural mutation primitives of one
// collection sidebar: the calls drop resolution and reorganization turn
// their decisions into.
type WorkspaceService interface {
	// CreateCollection creates an empty collection for an owner.
	CreateCollection(ctx context.Context, ownerID, name string) (*models.Collection, error)

	// ListCollections returns an owner's collections.
	ListCollections(ctx context.Context, ownerID string) ([]models.Collection, error)

	// DeleteCollection removes a collection and everything in it.
	DeleteCollection(ctx context.Context, collectionID string) error

	// GetTree returns the sidebar tree: root items in mixed order with
	// derived folder children.
	GetTree(ctx context.Context, collectionID string) (*models.Tree, error)

	// AddFolder creates a folder and splices it into the root order.
	AddFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// DeleteFolder removes an empty folder and its root order entry.
	DeleteFolder(ctx context.Context, folderID, collectionID string) error

	// CreateDocument inserts a document at the given location.
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// DeleteDocument removes a document, returning it (nil when absent).
	DeleteDocument(ctx context.Context, documentID, collectionID string) (*models.Document, error)

	// MoveDocument relocates a document to a folder (nil = root) at the
	// given position, reconciling both containers' orders.
	MoveDocument(ctx context.Context, req *MoveDocumentRequest) error

	// ReorderDocuments persists a new sibling order inside one folder.
	ReorderDocuments(ctx context.Context, folderID, collectionID string, orderedIDs []string) error

	// UpdateMixedOrder persists the root-level interleaved order.
	UpdateMixedOrder(ctx context.Context, collectionID string, orderedIDs []string) error

	// GroupDocumentsIntoFolder atomically creates a folder from two root
	// documents at the target's former position, auto-expanded.
	GroupDocumentsIntoFolder(ctx context.Context, req *GroupRequest) (*models.Folder, error)

	// SetFolderExpanded flips a folder's expansion state.
	SetFolderExpanded(ctx context.Context, folderID, collectionID string, expanded bool) error

	// ExecuteDecision turns a resolved drop decision into the concrete
	// mutation calls above.
	ExecuteDecision(ctx context.Context, collectionID string, decision drag.Decision) error
}

// CreateFolderRequest creates a folder, optionally at a root index.
type CreateFolderRequest struct {
	CollectionID string            `json:"collection_id"`
	Name         string            `json:"name"`
	Type         models.FolderType `json:"type,omitempty"`
	Position     *int              `json:"position,omitempty"`
	Deadline     *time.Time        `json:"deadline,omitempty"`
	Weighting    *float64          `json:"weighting,omitempty"`
}

// CreateDocumentRequest creates a document at a location.
type CreateDocumentRequest struct {
	CollectionID  string  `json:"collection_id"`
	Name          string  `json:"name"`
	FolderID      *string `json:"folder_id,omitempty"`
	Position      int     `json:"position"`
	IsPlaceholder bool    `json:"is_placeholder,omitempty"`
	Label         *string `json:"label,omitempty"`
}

// MoveDocumentRequest relocates a document.
type MoveDocumentRequest struct {
	DocumentID   string  `json:"document_id"`
	CollectionID string  `json:"collection_id"`
	FolderID     *string `json:"folder_id"` // nil = root
	Position     int     `json:"position"`
}

// GroupRequest creates a folder from the target document and the dragged
// document dropped onto it.
type GroupRequest struct {
	TargetDocumentID  string `json:"target_document_id"`
	DraggedDocumentID string `json:"dragged_document_id"`
	CollectionID      string `json:"collection_id"`
}
