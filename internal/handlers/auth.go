package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/ahumphries/campusnet/internal/models"
	"github.com/ahumphries/campusnet/internal/services"
)

type AuthHandler struct {
	userService services.UserServiceInterface
	authService services.AuthServiceInterface
}

func NewAuthHandler(userService services.UserServiceInterface, authService services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 2 || len(req.Username) > 100 {
		writeError(w, http.StatusBadRequest, "Username must be between 2 and 100 characters")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.userService.Create(r.Context(), models.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hash,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailAlreadyExists):
			writeError(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, services.ErrUsernameAlreadyExists):
			writeError(w, http.StatusConflict, "Username already taken")
		default:
			log.Printf("Error creating user: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	token, err := h.authService.IssueToken(user.ID, user.Username)
	if err != nil {
		log.Printf("Error issuing token: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, services.ErrUserNotFound) {
		// "No user" vs "Bad password" is the original contract. It permits
		// email enumeration; rate limiting on this route is the mitigation.
		writeError(w, http.StatusBadRequest, "No user")
		return
	}
	if err != nil {
		log.Printf("Error loading user for login: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Provider-only accounts have no password to check.
	if user.PasswordHash == nil {
		writeError(w, http.StatusBadRequest, "Bad password")
		return
	}

	ok, err := h.authService.VerifyPassword(*user.PasswordHash, req.Password)
	if err != nil {
		log.Printf("Error verifying password: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "Bad password")
		return
	}

	token, err := h.authService.IssueToken(user.ID, user.Username)
	if err != nil {
		log.Printf("Error issuing token: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Me echoes the identity carried by the caller's token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
