package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ahumphries/campusnet/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// SetUserInContext attaches the verified caller identity. Downstream code
// trusts this identity without re-verifying the token.
func SetUserInContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the verified caller, or nil on an
// unauthenticated request.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
