package service

import (
	"context"
	"log/slog"
	"sync"

	"binder/internal/domain/services"
)

// ContextEvent is one add-to-context notification, as delivered to
// subscribers.
type ContextEvent struct {
	CollectionID string `json:"collection_id"`
	DocumentID   string `json:"document_id"`
}

// EventNotifier fans add-to-context events out to in-process subscribers
// (the SSE handler) and logs them. Slow subscribers drop events rather
// than block the drop path.
type EventNotifier struct {
	logger *slog.Logger

	mu   sync.Mutex
	subs map[chan ContextEvent]struct{}
}

// NewEventNotifier creates the notifier.
func NewEventNotifier(logger *slog.Logger) *EventNotifier {
	return &EventNotifier{
		logger: logger,
		subs:   make(map[chan ContextEvent]struct{}),
	}
}

var _ services.Notifier = (*EventNotifier)(nil)

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away.
func (n *EventNotifier) Subscribe() (<-chan ContextEvent, func()) {
	ch := make(chan ContextEvent, 16)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		delete(n.subs, ch)
		n.mu.Unlock()
	}
	return ch, cancel
}

// DocumentAddedToContext publishes a chat-zone drop.
func (n *EventNotifier) DocumentAddedToContext(ctx context.Context, collectionID, documentID string) {
	n.logger.Info("document added to chat context",
		"collection_id", collectionID,
		"document_id", documentID,
	)

	event := ContextEvent{CollectionID: collectionID, DocumentID: documentID}
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- event:
		default:
			// Drop for slow subscribers.
		}
	}
}
