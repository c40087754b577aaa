// Package middleware provides HTTP middlewares for authentication,
// authorization, logging, and metrics.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alpsupport/ticketdesk/internal/models"
	"github.com/alpsupport/ticketdesk/internal/token"
)

type ctxKey string

const (
	userKey ctxKey = "uid"
	roleKey ctxKey = "role"
)

// BearerAuth validates the Authorization: Bearer token when present and
// stores the authenticated user id and role in the request context.
// Requests without a valid token pass through unauthenticated; protected
// routes reject them via RequireAuth / RequireRoles.
func BearerAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := token.Parse(secret, strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, claims.UserID)
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user id.
// Returns an empty string if the request was unauthenticated.
func GetUserIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(userKey).(string); ok {
		return s
	}
	return ""
}

// GetRoleFromContext extracts the authenticated role.
func GetRoleFromContext(ctx context.Context) models.Role {
	if r, ok := ctx.Value(roleKey).(models.Role); ok {
		return r
	}
	return ""
}

// WithIdentity returns a context carrying the given identity. Used by
// tests and internal callers.
func WithIdentity(ctx context.Context, userID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, userKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
