package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID `json:"post_id"`
	UserID      uuid.UUID `json:"user_id"`
	Description string    `json:"description"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type Photo struct {
	ID        uuid.UUID `json:"photo_id"`
	PostID    uuid.UUID `json:"post_id"`
	ImagePath string    `json:"image_path"`
}

type Comment struct {
	ID        uuid.UUID `json:"comment_id"`
	CreatedBy uuid.UUID `json:"created_by"`
	PostID    uuid.UUID `json:"post_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
