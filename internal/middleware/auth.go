package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"boards/internal/auth"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
	"boards/internal/httputil"
)

// Auth validates the bearer token on every request and stores the caller's
// user ID in the request context. Verified principals are mirrored into the
// local users table so membership grants can reference them.
func Auth(verifier auth.JWTVerifier, userRepo repositories.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user := &models.User{
				ID:          claims.GetUserID(),
				DisplayName: claims.DisplayName,
				CreatedAt:   time.Now(),
			}
			if err := userRepo.Upsert(r.Context(), user); err != nil {
				// The request can still proceed; membership grants
				// against this principal may fail until a later
				// request syncs it.
				logger.Warn("principal sync failed", "user_id", user.ID, "error", err)
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
