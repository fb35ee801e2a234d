package httputil

import (
	"context"
	"net/http"
)

// contextKey is unexported so values set here cannot collide with keys
// from other packages.
type contextKey string

const userIDKey contextKey = "userID"

// WithUserID returns a copy of the request whose context carries the
// authenticated user's ID.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID reads the authenticated user's ID from the request context.
// It is empty on requests that never passed through auth.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
