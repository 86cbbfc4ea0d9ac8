package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/ahumphries/campusnet/internal/services"
)

type GroupHandler struct {
	groupService services.GroupServiceInterface
}

func NewGroupHandler(groupService services.GroupServiceInterface) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type JoinGroupResponse struct {
	Joined bool `json:"joined"`
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid group ID")
		return
	}

	if err := h.groupService.Join(r.Context(), user.ID, groupID); err != nil {
		log.Printf("Error joining group: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, JoinGroupResponse{Joined: true})
}
