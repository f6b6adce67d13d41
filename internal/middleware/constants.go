// File: internal/middleware/constants.go
package middleware

import "context"

// Context keys for values the middleware chain attaches to requests.
type contextKey string

const UserIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user ID placed there by
// the session middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}
