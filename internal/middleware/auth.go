package middleware

import (
	"context"
	"net/http"

	"github.com/parisbet/backend/internal/auth"
)

// RequireAuth is middleware that resolves the session token (Bearer
// header or cookie) and injects the user_login into the request
// context.
func RequireAuth(sessions auth.SessionRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			login, err := sessions.Get(r.Context(), token)
			if err != nil || login == "" {
				http.Error(w, `{"error":"invalid session"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "user_login", login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
