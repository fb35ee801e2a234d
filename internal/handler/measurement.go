package handler

import (
	"log/slog"
	"net/http"

	"binder/internal/httputil"
	"binder/internal/service"
)

// MeasurementHandler receives the client's reported sidebar geometry.
// All hit-testing (drags and external drops) resolves against the latest
// report.
type MeasurementHandler struct {
	store  *service.MeasurementStore
	logger *slog.Logger
}

// NewMeasurementHandler creates a new measurement handler
func NewMeasurementHandler(store *service.MeasurementStore, logger *slog.Logger) *MeasurementHandler {
	return &MeasurementHandler{
		store:  store,
		logger: logger,
	}
}

// PutMeasurements replaces a collection's measurements
// PUT /api/collections/{id}/measurements
func (h *MeasurementHandler) PutMeasurements(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	var m service.Measurements
	if err := httputil.ParseJSON(w, r, &m); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.store.Put(id, m)
	h.logger.Debug("measurements updated",
		"collection_id", id,
		"heights", len(m.Heights),
		"scroll_top", m.ScrollTop,
	)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMeasurements forgets a collection's measurements, forcing drop
// resolution to defer until the client reports again
// DELETE /api/collections/{id}/measurements
func (h *MeasurementHandler) DeleteMeasurements(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	h.store.Drop(id)
	w.WriteHeader(http.StatusNoContent)
}
