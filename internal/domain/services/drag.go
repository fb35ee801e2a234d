package services

import (
	"context"

	"binder/internal/engine/drag"
	"binder/internal/engine/layout"
)

// DragService hosts at most one live drag session per collection. Clients
// report pointer samples; the service resolves hover state against the
// current measured view and, on drop, executes the resulting decision.
type DragService interface {
	// Start opens a session for an item. A second start on the same
	// collection while a session is live is a conflict.
	Start(ctx context.Context, collectionID, itemID string, at layout.Point) error

	// Move feeds a pointer sample and returns the current hover state
	// plus the auto-scroll speed for the client to apply.
	Move(ctx context.Context, collectionID string, at layout.Point) (*DragState, error)

	// Drop finishes the session, executes the decision and releases the
	// slot. The decision is returned so clients can animate it.
	Drop(ctx context.Context, collectionID string, at layout.Point, zone drag.Zone) (*drag.Decision, error)

	// Cancel abandons the session without mutating anything.
	Cancel(ctx context.Context, collectionID string) error
}

// DragState is the hover feedback for one pointer sample.
type DragState struct {
	ItemID      string       `json:"item_id"`
	Hover       drag.Hover   `json:"hover"`
	ScrollSpeed float64      `json:"scroll_speed"`
	Pointer     layout.Point `json:"pointer"`
}
