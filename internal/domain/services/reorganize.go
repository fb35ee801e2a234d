package services

import (
	"context"
	"time"

	"binder/internal/engine/anim"
	"binder/internal/engine/reorg"
)

// ReorganizeService runs the full reorganization pipeline: fetch a
// suggested layout from the organizer, diff it against current state and
// apply it through the animation orchestrator.
type ReorganizeService interface {
	// Reorganize asks the organizer for a full-collection layout and
	// applies it. Suggestions that collapse to a no-op return an empty
	// timeline without touching storage.
	Reorganize(ctx context.Context, collectionID string) (*ReorganizeResult, error)

	// ApplyOperations applies an already-computed operation payload,
	// bypassing the organizer. Used for client-confirmed suggestions.
	ApplyOperations(ctx context.Context, collectionID string, ops *reorg.Operations) (*ReorganizeResult, error)

	// AutoOrganize asks the organizer where one document belongs and
	// moves it there. A nil placement suggestion leaves it in place.
	AutoOrganize(ctx context.Context, documentID, collectionID string) error

	// NotifyTargetedDrop forwards a deliberate into-folder drop to the
	// organizer so future suggestions respect the user's choice. A no-op
	// when no organizer is configured.
	NotifyTargetedDrop(ctx context.Context, documentID, folderID, collectionID string) error
}

// ReorganizeResult carries the applied payload and its animation timeline.
// RemeasureAfter is how long the client should wait after the drop phase
// starts before re-reporting row geometry: the timeline total plus a
// settle delay, zero when nothing was applied.
type ReorganizeResult struct {
	Operations     *reorg.Operations `json:"operations"`
	Timeline       *anim.Timeline    `json:"timeline"`
	Applied        bool              `json:"applied"`
	RemeasureAfter time.Duration     `json:"remeasureAfter"`
}

// OrganizerClient talks to the external organizer that suggests document
// placements.
type OrganizerClient interface {
	// SuggestReorganization returns a full-collection operation payload.
	SuggestReorganization(ctx context.Context, collectionID, collectionName string) (*reorg.Operations, error)

	// SuggestPlacement returns the folder name a document belongs in,
	// nil when it should stay where it is.
	SuggestPlacement(ctx context.Context, collectionID, documentName string) (*string, error)

	// NotifyTargetedDrop tells the organizer a document was dropped
	// directly into a folder, so future suggestions respect the choice.
	NotifyTargetedDrop(ctx context.Context, collectionID, documentID, folderID string) error
}
