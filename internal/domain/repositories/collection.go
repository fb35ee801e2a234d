package repositories

import (
	"context"

	"binder/internal/domain/models"
)

// CollectionRepository persists collections.
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id string) (*models.Collection, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Collection, error)
	Delete(ctx context.Context, id string) error
}

// OrderRepository persists the root-level mixed order of each collection.
type OrderRepository interface {
	// Get returns the stored mixed order, or an empty order when none has
	// been persisted yet.
	Get(ctx context.Context, collectionID string) (*models.MixedOrder, error)

	// Set upserts the mixed order.
	Set(ctx context.Context, collectionID string, itemIDs []string) error
}
