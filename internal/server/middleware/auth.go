package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Gustavohps10/timelapse-sub001/internal/server/jwt"
)

type contextKey string

const (
	// SessionKey stores the validated session claims in the request context
	SessionKey contextKey = "session"
)

// SessionFromContext extracts the validated session claims.
func SessionFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(SessionKey).(*jwt.Claims)
	return claims, ok
}

// SessionAuthMiddleware validates the Bearer workspace session token and
// stores its claims in the request context. Handlers still check that the
// session's workspace matches the one addressed by the request path.
func SessionAuthMiddleware(logger *slog.Logger, cfg jwt.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing Authorization header", "path", r.URL.Path)
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("invalid Authorization header format")
				http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := jwt.ValidateSessionToken(cfg, parts[1])
			if err != nil {
				logger.Warn("invalid session token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
