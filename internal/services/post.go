package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ahumphries/campusnet/internal/models"
)

// ErrDraftNotFound means the post does not exist, is already published, or
// belongs to another user. Callers cannot tell which; draft operations only
// ever touch the caller's own unpublished posts.
var ErrDraftNotFound = errors.New("draft not found")

type PostService struct {
	db DBConn
}

func NewPostService(db DBConn) *PostService {
	return &PostService{db: db}
}

func (s *PostService) Create(ctx context.Context, userID uuid.UUID, description string, isPublished bool) (*models.Post, error) {
	post := &models.Post{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO posts (user_id, description, is_published)
		 VALUES ($1, $2, $3)
		 RETURNING post_id, user_id, description, is_published, created_at`,
		userID, description, isPublished,
	).Scan(&post.ID, &post.UserID, &post.Description, &post.IsPublished, &post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return post, nil
}

// ListDrafts returns the user's unpublished posts, newest first.
func (s *PostService) ListDrafts(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(ctx,
		`SELECT post_id, user_id, description, is_published, created_at
		 FROM posts
		 WHERE user_id = $1 AND is_published = FALSE
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	drafts := []models.Post{}
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Description, &post.IsPublished, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		drafts = append(drafts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}
	return drafts, nil
}

// PublishDraft flips the caller's draft to published. The timestamp resets so
// the post surfaces as new rather than at its draft creation time.
func (s *PostService) PublishDraft(ctx context.Context, userID, postID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE posts
		 SET is_published = TRUE, created_at = NOW()
		 WHERE post_id = $1 AND user_id = $2 AND is_published = FALSE`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("publishing draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// DeleteDraft removes the caller's draft. Published posts cannot be deleted
// this way; photos go with the post via the cascade.
func (s *PostService) DeleteDraft(ctx context.Context, userID, postID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM posts
		 WHERE post_id = $1 AND user_id = $2 AND is_published = FALSE`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (s *PostService) AddPhoto(ctx context.Context, postID uuid.UUID, imagePath string) (*models.Photo, error) {
	photo := &models.Photo{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO photos (post_id, image_path)
		 VALUES ($1, $2)
		 RETURNING photo_id, post_id, image_path`,
		postID, imagePath,
	).Scan(&photo.ID, &photo.PostID, &photo.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("adding photo: %w", err)
	}
	return photo, nil
}

// Like records that the user liked the post. Liking twice is a no-op.
func (s *PostService) Like(ctx context.Context, userID, postID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO likes (user_id, post_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, postID,
	)
	if err != nil {
		return fmt.Errorf("inserting like: %w", err)
	}
	return nil
}

func (s *PostService) Comment(ctx context.Context, createdBy, postID uuid.UUID, body string) (*models.Comment, error) {
	comment := &models.Comment{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO comments (created_by, post_id, body)
		 VALUES ($1, $2, $3)
		 RETURNING comment_id, created_by, post_id, body, created_at`,
		createdBy, postID, body,
	).Scan(&comment.ID, &comment.CreatedBy, &comment.PostID, &comment.Body, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return comment, nil
}
