package middleware

import (
	"net/http"
	"strings"

	"siteforge/internal/auth"
	"siteforge/internal/httputil"
)

// publicPath reports whether a request path is reachable without a token.
// The published read endpoints are the only unauthenticated API surface.
func publicPath(path string) bool {
	if path == "/health" {
		return true
	}
	return path == "/api/published" || strings.HasPrefix(path, "/api/published/")
}

// Auth validates the Bearer token on protected routes and threads the
// verified user ID into the request context. Handlers re-check ownership
// against stored relationships; this only establishes identity.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
