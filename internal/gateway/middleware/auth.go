package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/echoplay/echoplay-backend/internal/shared/utils"
)

type contextKey string

const ContextKeyUserID contextKey = "user_id"

type AuthMiddleware struct {
	jwtSecret string
}

// NewAuthMiddleware creates and returns a new instance of AuthMiddleware.
// The jwtSecret parameter is the key used for verifying bearer tokens.
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// RequireAuth enforces authentication on HTTP requests. The credential is
// taken from the Authorization header, the "token" query parameter or the
// "token" cookie, in that priority order, with a "Bearer " prefix stripped
// when present. On success the authenticated user's ID is injected into the
// request context for downstream handlers; otherwise a 401 is written.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractToken(r)
		if tokenStr == "" {
			utils.WriteFailure(w, http.StatusUnauthorized, "No authentication token, access denied")
			return
		}

		claims, err := utils.ValidateToken(tokenStr, m.jwtSecret)
		if err != nil {
			utils.WriteFailure(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken resolves the raw credential. The query parameter fallback is
// kept for compatibility with existing clients even though tokens in URLs end
// up in access logs.
func extractToken(r *http.Request) string {
	token := r.Header.Get("Authorization")

	if token == "" {
		token = r.URL.Query().Get("token")
	}

	if token == "" {
		if cookie, err := r.Cookie("token"); err == nil {
			token = cookie.Value
		}
	}

	return strings.TrimPrefix(token, "Bearer ")
}
