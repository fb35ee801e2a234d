package handler

import (
	"log/slog"
	"net/http"

	"binder/internal/domain/services"
	"binder/internal/engine/reorg"
	"binder/internal/httputil"
)

// ReorganizeHandler handles reorganization HTTP requests
type ReorganizeHandler struct {
	reorganize services.ReorganizeService
	logger     *slog.Logger
}

// NewReorganizeHandler creates a new reorganize handler
func NewReorganizeHandler(reorganize services.ReorganizeService, logger *slog.Logger) *ReorganizeHandler {
	return &ReorganizeHandler{
		reorganize: reorganize,
		logger:     logger,
	}
}

// Reorganize fetches an organizer suggestion and applies it
// POST /api/collections/{id}/reorganize
func (h *ReorganizeHandler) Reorganize(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	result, err := h.reorganize.Reorganize(r.Context(), collectionID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

type applyOperationsRequest struct {
	Operations reorg.Operations `json:"operations"`
}

// ApplyOperations applies a client-confirmed operation payload
// POST /api/collections/{id}/reorganize/apply
func (h *ReorganizeHandler) ApplyOperations(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req applyOperationsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.reorganize.ApplyOperations(r.Context(), collectionID, &req.Operations)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

type suggestDropRequest struct {
	FolderID string `json:"folder_id"`
}

// SuggestDrop tells the organizer a document was dropped directly into a
// folder, so future suggestions respect the choice
// POST /api/collections/{id}/documents/{documentID}/suggest-drop
func (h *ReorganizeHandler) SuggestDrop(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	documentID := r.PathValue("documentID")
	if collectionID == "" || documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection and document IDs are required")
		return
	}

	var req suggestDropRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FolderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder_id is required")
		return
	}

	if err := h.reorganize.NotifyTargetedDrop(r.Context(), documentID, req.FolderID, collectionID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AutoOrganize files a single document into a suggested folder
// POST /api/collections/{id}/documents/{documentID}/auto-organize
func (h *ReorganizeHandler) AutoOrganize(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	documentID := r.PathValue("documentID")
	if collectionID == "" || documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection and document IDs are required")
		return
	}

	if err := h.reorganize.AutoOrganize(r.Context(), documentID, collectionID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
