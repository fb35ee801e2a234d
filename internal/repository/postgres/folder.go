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

// FolderRepository is the pgx implementation of repositories.FolderRepository.
type FolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository.
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &FolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = `id, collection_id, name, type, is_expanded, position,
	deadline, weighting, created_at, updated_at`

func scanFolder(row interface{ Scan(...any) error }, folder *models.Folder) error {
	return row.Scan(
		&folder.ID,
		&folder.CollectionID,
		&folder.Name,
		&folder.Type,
		&folder.IsExpanded,
		&folder.Position,
		&folder.Deadline,
		&folder.Weighting,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
}

// Create inserts a folder and assigns its id.
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.Type == "" {
		folder.Type = models.FolderTypeFolder
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (collection_id, name, type, is_expanded, position,
			deadline, weighting, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	now := time.Now()
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		folder.CollectionID,
		folder.Name,
		folder.Type,
		folder.IsExpanded,
		folder.Position,
		folder.Deadline,
		folder.Weighting,
		now,
		now,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by id within a collection.
func (r *FolderRepository) GetByID(ctx context.Context, id, collectionID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND collection_id = $2
	`, folderColumns, r.tables.Folders)

	var folder models.Folder
	err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, collectionID), &folder)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update rewrites a folder's mutable fields.
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, type = $2, is_expanded = $3, position = $4,
			deadline = $5, weighting = $6, updated_at = $7
		WHERE id = $8 AND collection_id = $9
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.Name,
		folder.Type,
		folder.IsExpanded,
		folder.Position,
		folder.Deadline,
		folder.Weighting,
		time.Now(),
		folder.ID,
		folder.CollectionID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// SetExpanded flips a folder's expansion state.
func (r *FolderRepository) SetExpanded(ctx context.Context, id, collectionID string, expanded bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_expanded = $1, updated_at = $2
		WHERE id = $3 AND collection_id = $4
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, expanded, time.Now(), id, collectionID)
	if err != nil {
		return fmt.Errorf("set folder expansion: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetPositions rewrites folder positions to match the given order.
func (r *FolderRepository) SetPositions(ctx context.Context, collectionID string, orderedIDs []string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET position = $1, updated_at = $2
		WHERE id = $3 AND collection_id = $4
	`, r.tables.Folders)

	exec := GetExecutor(ctx, r.pool)
	now := time.Now()
	for i, id := range orderedIDs {
		if _, err := exec.Exec(ctx, query, i, now, id, collectionID); err != nil {
			return fmt.Errorf("set folder position %s: %w", id, err)
		}
	}

	return nil
}

// ListByCollection returns every folder in a collection ordered by position.
func (r *FolderRepository) ListByCollection(ctx context.Context, collectionID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE collection_id = $1
		ORDER BY position ASC, created_at ASC
	`, folderColumns, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := scanFolder(rows, &folder); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// Delete removes a folder. The documents table keeps a foreign key to
// folders, so deleting a non-empty folder surfaces as a conflict instead
// of stranding children.
func (r *FolderRepository) Delete(ctx context.Context, id, collectionID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND collection_id = $2
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, collectionID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("cannot delete folder with documents: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
