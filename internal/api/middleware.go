// Package api implements the Smart Habits REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/starford/habits/internal/auth"
	"github.com/starford/habits/internal/models"
)

type ctxKey int

const userKey ctxKey = iota

// CurrentUser returns the authenticated user stored by AuthMiddleware, or nil
// outside an authenticated request.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// AuthMiddleware resolves the "Authorization: Bearer <token>" header to a
// stored user and injects it into the request context. Requests without a
// resolvable principal are rejected with 401 before reaching any handler.
func AuthMiddleware(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("missing bearer token"))
				return
			}
			user, err := verifier.Resolve(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, "resolve credential", err)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
