package services

import (
	"context"

	"binder/internal/domain/models"
	"binder/internal/engine/dropzone"
	"binder/internal/engine/layout"
)

// DropService resolves OS-level file drops against the sidebar geometry
// and creates the dropped documents at the resolved location.
type DropService interface {
	// ResolveTarget maps a drop point to a placeholder, folder or root
	// index. Kind is TargetNone when the view is not yet measured.
	ResolveTarget(ctx context.Context, collectionID string, at layout.Point) (dropzone.Target, error)

	// ExecuteDrop resolves the target and creates one document per file
	// at consecutive indices from it.
	ExecuteDrop(ctx context.Context, req *ExternalDropRequest) (*ExternalDropResult, error)
}

// ExternalDropRequest carries a batch of dropped files and the pointer
// position at release.
type ExternalDropRequest struct {
	CollectionID string        `json:"collection_id"`
	At           layout.Point  `json:"at"`
	Files        []DroppedFile `json:"files"`
}

// DroppedFile is one file in an external drop batch.
type DroppedFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// ExternalDropResult reports where the batch landed.
type ExternalDropResult struct {
	Target    dropzone.Target    `json:"target"`
	Documents []*models.Document `json:"documents"`
}
