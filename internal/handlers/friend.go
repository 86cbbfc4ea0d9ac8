package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/ahumphries/campusnet/internal/services"
)

type FriendHandler struct {
	friendService services.FriendServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type SendRequestRequest struct {
	TargetUserID string `json:"target_user_id"`
}

type SendRequestResponse struct {
	Sent bool `json:"sent"`
}

type AcceptRequestRequest struct {
	FromUserID string `json:"from_user_id"`
}

type AcceptRequestResponse struct {
	Accepted bool `json:"accepted"`
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target user ID")
		return
	}

	if targetID == user.ID {
		writeError(w, http.StatusBadRequest, "Cannot send a friend request to yourself")
		return
	}

	if err := h.friendService.Request(r.Context(), user.ID, targetID); err != nil {
		log.Printf("Error sending friend request: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, SendRequestResponse{Sent: true})
}

func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AcceptRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fromID, err := uuid.Parse(req.FromUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sender user ID")
		return
	}

	if err := h.friendService.Accept(r.Context(), user.ID, fromID); err != nil {
		log.Printf("Error accepting friend request: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, AcceptRequestResponse{Accepted: true})
}
