package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ahumphries/campusnet/internal/services"
)

const (
	oauthStateCookieName = "oauth_state"
	oauthNonceCookieName = "oauth_nonce"
	oauthCookieMaxAge    = 10 * 60 // 10 minutes
	oauthPendingTTL      = 10 * time.Minute
)

type ProviderAuthHandler struct {
	providerAuth services.ProviderAuthServiceInterface
	authService  services.AuthServiceInterface
	redis        services.RedisClient
	providers    map[string]services.OAuthProvider
	secure       bool
}

func NewProviderAuthHandler(providerAuth services.ProviderAuthServiceInterface, authService services.AuthServiceInterface, redis services.RedisClient, providers map[services.Provider]services.OAuthProvider, secure bool) *ProviderAuthHandler {
	normalized := make(map[string]services.OAuthProvider, len(providers))
	for key, provider := range providers {
		normalized[strings.ToLower(string(key))] = provider
	}

	return &ProviderAuthHandler{
		providerAuth: providerAuth,
		authService:  authService,
		redis:        redis,
		providers:    normalized,
		secure:       secure,
	}
}

func (h *ProviderAuthHandler) ProviderStart(w http.ResponseWriter, r *http.Request) {
	provider, _ := h.getProvider(r)
	if provider == nil {
		http.NotFound(w, r)
		return
	}

	state, err := generateSecureToken(32)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start provider auth")
		return
	}
	nonce, err := generateSecureToken(32)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start provider auth")
		return
	}

	h.setOAuthCookie(w, oauthStateCookieName, state)
	h.setOAuthCookie(w, oauthNonceCookieName, nonce)

	http.Redirect(w, r, provider.AuthCodeURL(state, nonce), http.StatusFound)
}

func (h *ProviderAuthHandler) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	provider, providerKey := h.getProvider(r)
	if provider == nil {
		http.NotFound(w, r)
		return
	}

	if providerErr := r.URL.Query().Get("error"); providerErr != "" {
		writeError(w, http.StatusBadRequest, "Provider login failed: "+sanitizeErrorParam(providerErr))
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, "Missing OAuth parameters")
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || !secureCompare(stateCookie.Value, state) {
		writeError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	nonceCookie, err := r.Cookie(oauthNonceCookieName)
	if err != nil || nonceCookie.Value == "" {
		writeError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	claims, err := provider.ExchangeAndVerify(r.Context(), code, nonceCookie.Value)
	if err != nil {
		log.Printf("Provider exchange failed: %v", err)
		writeError(w, http.StatusBadGateway, "Provider login failed")
		return
	}

	linkResult, err := h.providerAuth.LinkOrFindUserFromProvider(r.Context(), claims)
	if err != nil {
		if errors.Is(err, services.ErrProviderEmailUnverified) {
			writeError(w, http.StatusBadRequest, "Provider email is not verified")
			return
		}
		log.Printf("Provider link failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.clearOAuthCookie(w, oauthStateCookieName)
	h.clearOAuthCookie(w, oauthNonceCookieName)

	if linkResult.User != nil {
		token, err := h.authService.IssueToken(linkResult.User.ID, linkResult.User.Username)
		if err != nil {
			log.Printf("Error issuing token: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		writeJSON(w, http.StatusOK, TokenResponse{Token: token})
		return
	}

	if linkResult.Pending == nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	pendingToken, err := generateSecureToken(32)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start provider auth")
		return
	}

	pendingRecord := providerPendingRecord{
		Provider: string(linkResult.Pending.Provider),
		Subject:  linkResult.Pending.Subject,
		Email:    linkResult.Pending.Email,
	}
	payload, err := json.Marshal(pendingRecord)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start provider auth")
		return
	}

	pendingKey := providerPendingRedisKey(pendingToken)
	if err := h.redis.Set(r.Context(), pendingKey, string(payload), oauthPendingTTL); err != nil {
		log.Printf("Provider pending save failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setOAuthCookie(w, providerPendingCookieName(providerKey), pendingToken)
	writeJSON(w, http.StatusOK, providerPendingResponse{
		UsernameRequired: true,
		Email:            linkResult.Pending.Email,
	})
}

// ProviderComplete finishes a first-time provider login by picking a username.
func (h *ProviderAuthHandler) ProviderComplete(w http.ResponseWriter, r *http.Request) {
	provider, providerKey := h.getProvider(r)
	if provider == nil {
		http.NotFound(w, r)
		return
	}

	pendingCookie, err := r.Cookie(providerPendingCookieName(providerKey))
	if err != nil || pendingCookie.Value == "" {
		writeError(w, http.StatusBadRequest, "Signup session expired. Please restart OAuth login.")
		return
	}

	pendingKey := providerPendingRedisKey(pendingCookie.Value)
	pendingJSON, err := h.redis.Get(r.Context(), pendingKey)
	if err != nil || pendingJSON == "" {
		writeError(w, http.StatusBadRequest, "Signup session expired. Please restart OAuth login.")
		return
	}

	var pending providerPendingRecord
	if err := json.Unmarshal([]byte(pendingJSON), &pending); err != nil {
		writeError(w, http.StatusBadRequest, "Signup session expired. Please restart OAuth login.")
		return
	}
	if pending.Provider != string(provider.Provider()) {
		writeError(w, http.StatusBadRequest, "Invalid signup session. Please restart OAuth login.")
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.providerAuth.CreateUserFromProviderPending(r.Context(), services.PendingProviderUser{
		Provider: provider.Provider(),
		Subject:  pending.Subject,
		Email:    pending.Email,
	}, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameAlreadyExists):
			writeError(w, http.StatusConflict, "Username already taken")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			writeError(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, services.ErrInvalidUsername):
			writeError(w, http.StatusBadRequest, "Username must be between 2 and 100 characters")
		case errors.Is(err, services.ErrInvalidProviderPending):
			writeError(w, http.StatusBadRequest, "Signup session expired. Please restart OAuth login.")
		default:
			log.Printf("Provider complete failed: %v", err)
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

	h.clearOAuthCookie(w, providerPendingCookieName(providerKey))
	_ = h.redis.Del(r.Context(), pendingKey)

	writeJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

type providerPendingResponse struct {
	UsernameRequired bool   `json:"username_required"`
	Email            string `json:"email"`
}

type providerPendingRecord struct {
	Provider string `json:"provider"`
	Subject  string `json:"subject"`
	Email    string `json:"email"`
}

func providerPendingCookieName(provider string) string {
	return provider + "_pending"
}

func providerPendingRedisKey(token string) string {
	return "oauth_pending:" + token
}

func (h *ProviderAuthHandler) getProvider(r *http.Request) (services.OAuthProvider, string) {
	providerKey := strings.ToLower(r.PathValue("provider"))
	if providerKey == "" {
		return nil, ""
	}
	provider, ok := h.providers[providerKey]
	if !ok {
		return nil, providerKey
	}
	return provider, providerKey
}

func (h *ProviderAuthHandler) setOAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   oauthCookieMaxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *ProviderAuthHandler) clearOAuthCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}

func generateSecureToken(size int) (string, error) {
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func secureCompare(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func sanitizeErrorParam(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "oauth_error"
	}
	if len(value) > 60 {
		value = value[:60]
	}
	for _, r := range value {
		if !isAllowedErrorRune(r) {
			return "oauth_error"
		}
	}
	return value
}

func isAllowedErrorRune(r rune) bool {
	return r == '-' || r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
