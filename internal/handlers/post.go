package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ahumphries/campusnet/internal/services"
)

type PostHandler struct {
	postService services.PostServiceInterface
}

func NewPostHandler(postService services.PostServiceInterface) *PostHandler {
	return &PostHandler{postService: postService}
}

type CreatePostRequest struct {
	Description string `json:"description"`
	IsPublished *bool  `json:"is_published"`
}

type AddPhotoRequest struct {
	ImagePath string `json:"image_path"`
}

type LikePostResponse struct {
	Liked bool `json:"liked"`
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}

type PublishDraftResponse struct {
	Published bool `json:"published"`
}

type DeleteDraftResponse struct {
	Deleted bool `json:"deleted"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "Description is required")
		return
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	post, err := h.postService.Create(r.Context(), user.ID, req.Description, published)
	if err != nil {
		log.Printf("Error creating post: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// Drafts lists the caller's unpublished posts, newest first.
func (h *PostHandler) Drafts(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	drafts, err := h.postService.ListDrafts(r.Context(), user.ID)
	if err != nil {
		log.Printf("Error listing drafts: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, drafts)
}

func (h *PostHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.postService.PublishDraft(r.Context(), user.ID, postID); err != nil {
		if errors.Is(err, services.ErrDraftNotFound) {
			writeError(w, http.StatusNotFound, "Draft not found")
			return
		}
		log.Printf("Error publishing draft: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, PublishDraftResponse{Published: true})
}

func (h *PostHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.postService.DeleteDraft(r.Context(), user.ID, postID); err != nil {
		if errors.Is(err, services.ErrDraftNotFound) {
			writeError(w, http.StatusNotFound, "Draft not found")
			return
		}
		log.Printf("Error deleting draft: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, DeleteDraftResponse{Deleted: true})
}

func (h *PostHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req AddPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.ImagePath = strings.TrimSpace(req.ImagePath)
	if req.ImagePath == "" {
		writeError(w, http.StatusBadRequest, "Image path is required")
		return
	}

	photo, err := h.postService.AddPhoto(r.Context(), postID, req.ImagePath)
	if err != nil {
		log.Printf("Error adding photo: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, photo)
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.postService.Like(r.Context(), user.ID, postID); err != nil {
		log.Printf("Error liking post: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, LikePostResponse{Liked: true})
}

func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "Comment body is required")
		return
	}

	comment, err := h.postService.Comment(r.Context(), user.ID, postID, req.Body)
	if err != nil {
		log.Printf("Error creating comment: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}
