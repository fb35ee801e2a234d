package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"binder/internal/domain/models"
	"binder/internal/domain/repositories"
)

// OrderRepository is the pgx implementation of repositories.OrderRepository.
// The root mixed order is stored as one text[] row per collection.
type OrderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewOrderRepository creates a new mixed-order repository.
func NewOrderRepository(config *RepositoryConfig) repositories.OrderRepository {
	return &OrderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get returns the stored mixed order. A collection that has never been
// reordered yields an empty order, not an error; callers derive a default
// from positions instead.
func (r *OrderRepository) Get(ctx context.Context, collectionID string) (*models.MixedOrder, error) {
	query := fmt.Sprintf(`
		SELECT item_ids, updated_at
		FROM %s
		WHERE collection_id = $1
	`, r.tables.Orders)

	order := models.MixedOrder{CollectionID: collectionID}
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, collectionID).Scan(&order.ItemIDs, &order.UpdatedAt)
	if err != nil {
		if isPgNoRowsError(err) {
			return &order, nil
		}
		return nil, fmt.Errorf("get mixed order: %w", err)
	}

	return &order, nil
}

// Set upserts the mixed order for a collection.
func (r *OrderRepository) Set(ctx context.Context, collectionID string, itemIDs []string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (collection_id, item_ids, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection_id)
		DO UPDATE SET item_ids = EXCLUDED.item_ids, updated_at = EXCLUDED.updated_at
	`, r.tables.Orders)

	if itemIDs == nil {
		itemIDs = []string{}
	}
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, collectionID, itemIDs, time.Now()); err != nil {
		return fmt.Errorf("set mixed order: %w", err)
	}

	return nil
}
