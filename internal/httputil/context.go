package httputil

import (
	"context"
	"net/http"
)

// contextKey is unexported so other packages cannot collide with our keys.
type contextKey string

const userIDKey contextKey = "userID"

// WithUserID returns a shallow copy of the request whose context carries the
// authenticated principal's ID.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID returns the principal ID set by the auth middleware, or the
// empty string when the request never passed through it.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
