package handler

import (
	"log/slog"
	"net/http"

	"binder/internal/domain/services"
	"binder/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(workspace services.WorkspaceService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		workspace: workspace,
		logger:    logger,
	}
}

// CreateDocument creates a document at a location
// POST /api/collections/{id}/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req services.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CollectionID = collectionID

	doc, err := h.workspace.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// DeleteDocument removes a document
// DELETE /api/collections/{id}/documents/{documentID}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	documentID := r.PathValue("documentID")
	if collectionID == "" || documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection and document IDs are required")
		return
	}

	doc, err := h.workspace.DeleteDocument(r.Context(), documentID, collectionID)
	if err != nil {
		handleError(w, err)
		return
	}
	if doc == nil {
		// Already gone; deletion is idempotent.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

type moveDocumentRequest struct {
	FolderID *string `json:"folder_id"`
	Position int     `json:"position"`
}

// MoveDocument relocates a document between containers
// PUT /api/collections/{id}/documents/{documentID}/move
func (h *DocumentHandler) MoveDocument(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	documentID := r.PathValue("documentID")
	if collectionID == "" || documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection and document IDs are required")
		return
	}

	var req moveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.workspace.MoveDocument(r.Context(), &services.MoveDocumentRequest{
		DocumentID:   documentID,
		CollectionID: collectionID,
		FolderID:     req.FolderID,
		Position:     req.Position,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type mixedOrderRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// UpdateOrder persists the root interleaved order
// PUT /api/collections/{id}/order
func (h *DocumentHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req mixedOrderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.workspace.UpdateMixedOrder(r.Context(), collectionID, req.ItemIDs); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GroupDocuments creates a folder from two root documents
// POST /api/collections/{id}/group
func (h *DocumentHandler) GroupDocuments(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req services.GroupRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CollectionID = collectionID

	folder, err := h.workspace.GroupDocumentsIntoFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}
