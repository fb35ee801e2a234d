package handler

import (
	"log/slog"
	"net/http"

	"binder/internal/domain/services"
	"binder/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(workspace services.WorkspaceService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		workspace: workspace,
		logger:    logger,
	}
}

// CreateFolder creates a folder in a collection
// POST /api/collections/{id}/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CollectionID = collectionID

	folder, err := h.workspace.AddFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// DeleteFolder deletes an empty folder
// DELETE /api/collections/{id}/folders/{folderID}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	folderID := r.PathValue("folderID")
	if collectionID == "" || folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection and folder IDs are required")
		return
	}

	if err := h.workspace.DeleteFolder(r.Context(), folderID, collectionID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setExpandedRequest struct {
	Expanded bool `json:"expanded"`
}

// SetExpanded flips a folder's expansion state
// PUT /api/collections/{id}/folders/{folderID}/expanded
func (h *FolderHandler) SetExpanded(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	folderID := r.PathValue("folderID")
	if collectionID == "" || folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection and folder IDs are required")
		return
	}

	var req setExpandedRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.workspace.SetFolderExpanded(r.Context(), folderID, collectionID, req.Expanded); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

// ReorderDocuments persists a new child order inside a folder
// PUT /api/collections/{id}/folders/{folderID}/documents
func (h *FolderHandler) ReorderDocuments(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	folderID := r.PathValue("folderID")
	if collectionID == "" || folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection and folder IDs are required")
		return
	}

	var req reorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.workspace.ReorderDocuments(r.Context(), folderID, collectionID, req.DocumentIDs); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
