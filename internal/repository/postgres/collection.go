package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"binder/internal/domain"
	"binder/internal/domain/models"
	"binder/internal/domain/repositories"
)

// CollectionRepository is the pgx implementation of repositories.CollectionRepository.
type CollectionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCollectionRepository creates a new collection repository.
func NewCollectionRepository(config *RepositoryConfig) repositories.CollectionRepository {
	return &CollectionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a collection and assigns its id.
func (r *CollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Collections)

	now := time.Now()
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		collection.Name,
		collection.OwnerID,
		now,
		now,
	).Scan(&collection.ID, &collection.CreatedAt, &collection.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	return nil
}

// GetByID retrieves a collection by id.
func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	query := fmt.Sprintf(`
		SELECT id, name, owner_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Collections)

	var collection models.Collection
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&collection.ID,
		&collection.Name,
		&collection.OwnerID,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("collection %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}

	return &collection, nil
}

// ListByOwner returns every collection owned by a user.
func (r *CollectionRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Collection, error) {
	query := fmt.Sprintf(`
		SELECT id, name, owner_id, created_at, updated_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, r.tables.Collections)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var collection models.Collection
		err := rows.Scan(
			&collection.ID,
			&collection.Name,
			&collection.OwnerID,
			&collection.CreatedAt,
			&collection.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, collection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}

// Delete removes a collection.
func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Collections)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("collection %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
