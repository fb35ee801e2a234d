package handler

import (
	"log/slog"
	"net/http"

	"binder/internal/domain/services"
	"binder/internal/engine/layout"
	"binder/internal/httputil"
)

// DropHandler handles external file drop HTTP requests
type DropHandler struct {
	drops  services.DropService
	logger *slog.Logger
}

// NewDropHandler creates a new drop handler
func NewDropHandler(drops services.DropService, logger *slog.Logger) *DropHandler {
	return &DropHandler{
		drops:  drops,
		logger: logger,
	}
}

type resolveTargetRequest struct {
	At layout.Point `json:"at"`
}

// ResolveTarget maps a drop point to a placeholder, folder or root index
// POST /api/collections/{id}/drop/resolve
func (h *DropHandler) ResolveTarget(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req resolveTargetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := h.drops.ResolveTarget(r.Context(), collectionID, req.At)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, target)
}

// ExecuteDrop creates one document per dropped file at the resolved location
// POST /api/collections/{id}/drop
func (h *DropHandler) ExecuteDrop(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var req services.ExternalDropRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CollectionID = collectionID

	result, err := h.drops.ExecuteDrop(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}
