package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"binder/internal/httputil"
	"binder/internal/service"
)

// keepAliveInterval is how often an SSE comment is written to hold the
// connection open through proxies.
const keepAliveInterval = 30 * time.Second

// EventsHandler streams add-to-context events to clients over SSE
type EventsHandler struct {
	notifier *service.EventNotifier
	logger   *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(notifier *service.EventNotifier, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// Stream subscribes the client to context events for one collection
// GET /api/collections/{id}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	collectionID := r.PathValue("id")
	if collectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "collection ID is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := h.notifier.Subscribe()
	defer cancel()

	clientID := uuid.New().String()
	h.logger.Debug("SSE client connected",
		"client_id", clientID,
		"collection_id", collectionID,
	)

	// Initial comment so clients know the stream is live.
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("SSE client disconnected",
				"client_id", clientID,
				"collection_id", collectionID,
			)
			return

		case <-keepAlive.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case event := <-events:
			if event.CollectionID != collectionID {
				continue
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal context event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: context-added\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
