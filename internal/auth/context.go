package auth

import (
	"context"

	"github.com/wanderlust/wanderlust/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// sessionContextKey is the context key for the request's session.
	sessionContextKey contextKey = "session"
)

// ContextWithSession adds the session to the context.
func ContextWithSession(ctx context.Context, sess *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext retrieves the session from the context.
// Returns nil if the session middleware did not run.
func SessionFromContext(ctx context.Context) *model.Session {
	sess, ok := ctx.Value(sessionContextKey).(*model.Session)
	if !ok {
		return nil
	}
	return sess
}

// UserIDFromContext returns the logged-in user's id, or empty string.
func UserIDFromContext(ctx context.Context) string {
	sess := SessionFromContext(ctx)
	if !sess.IsAuthenticated() {
		return ""
	}
	return sess.UserID
}
