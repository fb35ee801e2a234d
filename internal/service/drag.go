package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"binder/internal/config"
	"binder/internal/domain"
	"binder/internal/domain/services"
	"binder/internal/engine/drag"
	"binder/internal/engine/layout"
)

// dragService hosts the live drag sessions. One mutex serializes all
// session operations: a session is single-pointer state, so concurrent
// samples for the same collection are client misuse, and cross-collection
// contention is negligible at sidebar interaction rates.
type dragService struct {
	views     *ViewBuilder
	workspace services.WorkspaceService
	cfg       config.EngineConfig
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*drag.Session // collection id -> live session
}

// NewDragService creates the drag session host.
func NewDragService(
	views *ViewBuilder,
	workspace services.WorkspaceService,
	cfg config.EngineConfig,
	logger *slog.Logger,
) services.DragService {
	return &dragService{
		views:     views,
		workspace: workspace,
		cfg:       cfg,
		logger:    logger,
		sessions:  make(map[string]*drag.Session),
	}
}

func (s *dragService) dragConfig() drag.Config {
	return drag.Config{
		GroupBandFraction: s.cfg.GroupBandFraction,
		GroupBandPadX:     s.cfg.GroupBandPadX,
		FolderPad:         s.cfg.FolderPad,
	}
}

// Start opens a session for an item. At most one session may be live per
// collection; a second start is a conflict until the first drops or
// cancels.
func (s *dragService) Start(ctx context.Context, collectionID, itemID string, at layout.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[collectionID]; ok {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("drag of %s already in progress", existing.ItemID),
			ResourceType: "drag_session",
			ResourceID:   collectionID,
		}
	}

	v, err := s.views.Build(ctx, collectionID)
	if err != nil {
		return err
	}
	if !v.Measured() {
		return fmt.Errorf("%w: sidebar has no measurements yet", domain.ErrValidation)
	}

	sess, err := drag.Start(v, itemID, at, s.dragConfig())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	s.sessions[collectionID] = sess

	s.logger.Debug("drag started",
		"collection_id", collectionID,
		"item_id", itemID,
		"was_expanded", sess.WasExpanded,
	)
	return nil
}

// Move feeds a pointer sample to the live session and returns the hover
// state plus the auto-scroll speed for the client to apply.
func (s *dragService) Move(ctx context.Context, collectionID string, at layout.Point) (*services.DragState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: no active drag for collection %s", domain.ErrNotFound, collectionID)
	}

	v, err := s.views.Build(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	scroller := drag.Autoscroller{Threshold: s.cfg.ScrollThreshold, MaxSpeed: s.cfg.ScrollMaxSpeed}
	return &services.DragState{
		ItemID:      sess.ItemID,
		Hover:       sess.Move(v, at),
		ScrollSpeed: scroller.Speed(at.Y, v.ScrollTop, v.ScrollTop+v.ViewportHeight),
		Pointer:     at,
	}, nil
}

// Drop finishes the session from the latest pointer sample, executes the
// resolved decision and frees the collection's slot.
func (s *dragService) Drop(ctx context.Context, collectionID string, at layout.Point, zone drag.Zone) (*drag.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: no active drag for collection %s", domain.ErrNotFound, collectionID)
	}
	delete(s.sessions, collectionID)

	v, err := s.views.Build(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	decision := sess.Drop(v, at, zone)
	if err := s.workspace.ExecuteDecision(ctx, collectionID, decision); err != nil {
		return nil, err
	}

	s.logger.Info("drag dropped",
		"collection_id", collectionID,
		"item_id", decision.ItemID,
		"op", decision.Op.String(),
		"index", decision.Index,
	)
	return &decision, nil
}

// Cancel abandons the session. Structure stays untouched, but a dragged
// folder that was expanded gets its expansion back.
func (s *dragService) Cancel(ctx context.Context, collectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[collectionID]
	if !ok {
		return fmt.Errorf("%w: no active drag for collection %s", domain.ErrNotFound, collectionID)
	}
	delete(s.sessions, collectionID)
	sess.Cancel()

	if sess.WasExpanded {
		if err := s.workspace.SetFolderExpanded(ctx, sess.ItemID, collectionID, true); err != nil {
			return err
		}
	}

	s.logger.Debug("drag cancelled", "collection_id", collectionID, "item_id", sess.ItemID)
	return nil
}
