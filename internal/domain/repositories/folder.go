package repositories

import (
	"context"

	"binder/internal/domain/models"
)

// FolderRepository persists folders. Folders have no parent folder: the
// hierarchy is root plus one level.
type FolderRepository interface {
	// Create inserts a folder, assigning its id.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder scoped to its collection.
	GetByID(ctx context.Context, id, collectionID string) (*models.Folder, error)

	// Update rewrites a folder's mutable fields (name, type, expansion,
	// position, deadline, weighting).
	Update(ctx context.Context, folder *models.Folder) error

	// SetExpanded flips a folder's expansion state.
	SetExpanded(ctx context.Context, id, collectionID string, expanded bool) error

	// SetPositions rewrites folder positions to match the given order.
	SetPositions(ctx context.Context, collectionID string, orderedIDs []string) error

	// ListByCollection returns every folder in a collection.
	ListByCollection(ctx context.Context, collectionID string) ([]models.Folder, error)

	// Delete removes a folder. Callers guarantee the folder is empty.
	Delete(ctx context.Context, id, collectionID string) error
}
