// Package middleware provides HTTP middlewares for identity handling,
// request logging, and rate limiting.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// UserHeader carries the caller's anonymous identity. The store never
// authenticates beyond this: it is a blind store keyed by identity.
const UserHeader = "X-Vault-User"

type ctxKey string

const userKey ctxKey = "user"

// IdentityAuth enforces the anonymous-identity contract: every request
// must carry a well-formed identity UUID in the UserHeader header. On
// success the identity is stored in the request context for handlers
// downstream.
func IdentityAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(UserHeader)
		if id == "" {
			http.Error(w, "missing identity", http.StatusUnauthorized)
			return
		}
		if uuid.Validate(id) != nil {
			http.Error(w, "malformed identity", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the anonymous identity from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(userKey).(string); ok {
		return s
	}
	return ""
}
