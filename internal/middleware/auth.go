package middleware

import (
	"net/http"
	"strings"

	"github.com/ahumphries/campusnet/internal/handlers"
	"github.com/ahumphries/campusnet/internal/models"
	"github.com/ahumphries/campusnet/internal/services"
)

type AuthMiddleware struct {
	authService services.AuthServiceInterface
}

func NewAuthMiddleware(authService services.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAuth rejects requests that do not carry a valid bearer token. All
// failure modes get the same 401 so callers cannot distinguish a missing
// token from an expired or forged one.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := m.authService.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		// The token carries everything the handlers need; no DB round trip.
		user := &models.User{
			ID:       claims.UserID,
			Username: claims.Username,
		}
		ctx := handlers.SetUserInContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
