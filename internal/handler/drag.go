package handler

import (
	"log/slog"
	"net/http"

	"binder/internal/domain/models"
	"binder/internal/domain/services"
	"binder/internal/engine/drag"
	"binder/internal/engine/layout"
	"binder/internal/httputil"
)

// DragHandler handles drag session HTTP requests
type DragHandler struct {
	drags     services.DragService
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewDragHandler creates a new drag handler
func NewDragHandler(drags services.DragService, workspace services.WorkspaceService, logger *slog.Logger) *DragHandler {
	return &DragHandler{
		drags:     drags,
		workspace: workspace,
		logger:    logger,
	}
}

type startDragRequest struct {
	ItemID string       `json:"item_id"`
	At     layout.Point `json:"at"`
}

// StartDrag opens a drag session for an item
// POST /api/collections/{id}/drag
func (h *DragHandler) StartDrag(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req startDragRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	if err := h.drags.Start(r.Context(), collectionID, req.ItemID, req.At); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type moveDragRequest struct {
	At layout.Point `json:"at"`
}

// MoveDrag feeds a pointer sample to the live session
// PUT /api/collections/{id}/drag
func (h *DragHandler) MoveDrag(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req moveDragRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.drags.Move(r.Context(), collectionID, req.At)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, state)
}

type dropDragRequest struct {
	At   layout.Point `json:"at"`
	Zone string       `json:"zone"`
}

type dropDragResponse struct {
	Op               string       `json:"op"`
	ItemID           string       `json:"item_id"`
	TargetDocumentID string       `json:"target_document_id,omitempty"`
	FolderID         string       `json:"folder_id,omitempty"`
	Index            int          `json:"index"`
	RestoreExpanded  bool         `json:"restore_expanded,omitempty"`
	Tree             *models.Tree `json:"tree,omitempty"`
}

// DropDrag finishes the session and executes the resulting decision
// POST /api/collections/{id}/drag/drop
func (h *DragHandler) DropDrag(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req dropDragRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	zone := drag.ZoneSidebar
	switch req.Zone {
	case "", "sidebar":
	case "chat-context":
		zone = drag.ZoneChatContext
	default:
		httputil.RespondError(w, http.StatusBadRequest, "zone must be 'sidebar' or 'chat-context'")
		return
	}

	decision, err := h.drags.Drop(r.Context(), collectionID, req.At, zone)
	if err != nil {
		handleError(w, err)
		return
	}

	// Refreshed tree saves the client a round trip after the mutation.
	tree, err := h.workspace.GetTree(r.Context(), collectionID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dropDragResponse{
		Op:               decision.Op.String(),
		ItemID:           decision.ItemID,
		TargetDocumentID: decision.TargetDocumentID,
		FolderID:         decision.FolderID,
		Index:            decision.Index,
		RestoreExpanded:  decision.RestoreExpanded,
		Tree:             tree,
	})
}

// CancelDrag abandons the session without mutating anything
// DELETE /api/collections/{id}/drag
func (h *DragHandler) CancelDrag(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	if err := h.drags.Cancel(r.Context(), collectionID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
