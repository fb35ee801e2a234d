package services

import "context"

// Notifier fans sidebar events out to interested listeners (the chat
// surface, primarily).
type Notifier interface {
	// DocumentAddedToContext fires when a drag finishes over the chat
	// zone instead of the sidebar.
	DocumentAddedToContext(ctx context.Context, collectionID, documentID string)
}
