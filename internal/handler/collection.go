package handler

import (
	"log/slog"
	"net/http"

	"binder/internal/domain/services"
	"binder/internal/httputil"
)

// CollectionHandler handles collection HTTP requests
type CollectionHandler struct {
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(workspace services.WorkspaceService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{
		workspace: workspace,
		logger:    logger,
	}
}

type createCollectionRequest struct {
	Name string `json:"name"`
}

// CreateCollection creates a new collection
// POST /api/collections
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req createCollectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	collection, err := h.workspace.CreateCollection(r.Context(), userID, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, collection)
}

// ListCollections lists the caller's collections
// GET /api/collections
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.workspace.ListCollections(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, collections)
}

// DeleteCollection deletes a collection and its contents
// DELETE /api/collections/{id}
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	if err := h.workspace.DeleteCollection(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTree returns the sidebar tree for a collection
// GET /api/collections/{id}/tree
func (h *CollectionHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	tree, err := h.workspace.GetTree(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
