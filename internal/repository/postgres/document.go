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

// DocumentRepository is the pgx implementation of repositories.DocumentRepository.
type DocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &DocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const documentColumns = `id, collection_id, folder_id, name, position,
	is_placeholder, is_loading, thumbnail_url, label, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.CollectionID,
		&doc.FolderID,
		&doc.Name,
		&doc.Position,
		&doc.IsPlaceholder,
		&doc.IsLoading,
		&doc.ThumbnailURL,
		&doc.Label,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}

// Create inserts a document and assigns its id.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (collection_id, folder_id, name, position,
			is_placeholder, is_loading, thumbnail_url, label, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	now := time.Now()
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		doc.CollectionID,
		doc.FolderID,
		doc.Name,
		doc.Position,
		doc.IsPlaceholder,
		doc.IsLoading,
		doc.ThumbnailURL,
		doc.Label,
		now,
		now,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document folder %v: %w", doc.FolderID, domain.ErrValidation)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by id within a collection.
func (r *DocumentRepository) GetByID(ctx context.Context, id, collectionID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND collection_id = $2
	`, documentColumns, r.tables.Documents)

	var doc models.Document
	err := scanDocument(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, collectionID), &doc)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// Move relocates a document to a folder (nil = root) at the given position.
// Calling it with the document's current location is a harmless no-op write.
func (r *DocumentRepository) Move(ctx context.Context, id, collectionID string, folderID *string, position int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, position = $2, updated_at = $3
		WHERE id = $4 AND collection_id = $5
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, position, time.Now(), id, collectionID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("target folder %v: %w", folderID, domain.ErrValidation)
		}
		return fmt.Errorf("move document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetPositions rewrites document positions to match the given order.
// Unknown ids are skipped by the WHERE clause rather than failing the batch.
func (r *DocumentRepository) SetPositions(ctx context.Context, collectionID string, orderedIDs []string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET position = $1, updated_at = $2
		WHERE id = $3 AND collection_id = $4
	`, r.tables.Documents)

	exec := GetExecutor(ctx, r.pool)
	now := time.Now()
	for i, id := range orderedIDs {
		if _, err := exec.Exec(ctx, query, i, now, id, collectionID); err != nil {
			return fmt.Errorf("set document position %s: %w", id, err)
		}
	}

	return nil
}

// ListByFolder returns a folder's children ordered by position.
func (r *DocumentRepository) ListByFolder(ctx context.Context, folderID, collectionID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE folder_id = $1 AND collection_id = $2
		ORDER BY position ASC, created_at ASC
	`, documentColumns, r.tables.Documents)

	return r.list(ctx, query, folderID, collectionID)
}

// ListByCollection returns every document in a collection.
func (r *DocumentRepository) ListByCollection(ctx context.Context, collectionID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE collection_id = $1
		ORDER BY position ASC, created_at ASC
	`, documentColumns, r.tables.Documents)

	return r.list(ctx, query, collectionID)
}

func (r *DocumentRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Document, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// Delete removes a document and returns it, or nil when it was absent.
func (r *DocumentRepository) Delete(ctx context.Context, id, collectionID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND collection_id = $2
		RETURNING %s
	`, r.tables.Documents, documentColumns)

	var doc models.Document
	err := scanDocument(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, collectionID), &doc)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete document: %w", err)
	}

	return &doc, nil
}
