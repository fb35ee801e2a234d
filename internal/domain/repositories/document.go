package repositories

import (
	"context"

	"binder/internal/domain/models"
)

// DocumentRepository persists documents and their positions.
type DocumentRepository interface {
	// Create inserts a document, assigning its id.
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document scoped to its collection.
	GetByID(ctx context.Context, id, collectionID string) (*models.Document, error)

	// Move relocates a document to a folder (nil = root) at the given
	// position. Safe to call with the document's existing location.
	Move(ctx context.Context, id, collectionID string, folderID *string, position int) error

	// SetPositions rewrites document positions to match the given order.
	SetPositions(ctx context.Context, collectionID string, orderedIDs []string) error

	// ListByFolder returns a folder's children ordered by position.
	ListByFolder(ctx context.Context, folderID, collectionID string) ([]models.Document, error)

	// ListByCollection returns every document in a collection.
	ListByCollection(ctx context.Context, collectionID string) ([]models.Document, error)

	// Delete removes a document and returns it, or nil when absent.
	Delete(ctx context.Context, id, collectionID string) (*models.Document, error)
}
