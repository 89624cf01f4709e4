package httpapi

import (
	"net/http"
	"strings"
)

// AuthMiddleware validates the bearer token on every request.
// If the token is missing or invalid, it responds 401 without calling the
// next handler. The token is a static API token configured at startup.
func AuthMiddleware(validToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
			if token != validToken {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
