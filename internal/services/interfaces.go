package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahumphries/campusnet/internal/models"
)

// Handler-facing interfaces so handlers can be tested with fakes.

type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthServiceInterface interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) (bool, error)
	IssueToken(userID uuid.UUID, username string) (string, error)
	VerifyToken(token string) (*Claims, error)
}

type FriendServiceInterface interface {
	Request(ctx context.Context, requesterID, targetID uuid.UUID) error
	Accept(ctx context.Context, accepterID, requesterID uuid.UUID) error
}

type GroupServiceInterface interface {
	Join(ctx context.Context, userID, groupID uuid.UUID) error
}

type PostServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, description string, isPublished bool) (*models.Post, error)
	ListDrafts(ctx context.Context, userID uuid.UUID) ([]models.Post, error)
	PublishDraft(ctx context.Context, userID, postID uuid.UUID) error
	DeleteDraft(ctx context.Context, userID, postID uuid.UUID) error
	AddPhoto(ctx context.Context, postID uuid.UUID, imagePath string) (*models.Photo, error)
	Like(ctx context.Context, userID, postID uuid.UUID) error
	Comment(ctx context.Context, createdBy, postID uuid.UUID, body string) (*models.Comment, error)
}

type SearchServiceInterface interface {
	Search(ctx context.Context, query string) (*models.SearchResults, error)
}

type ProviderAuthServiceInterface interface {
	LinkOrFindUserFromProvider(ctx context.Context, claims IdentityClaims) (*ProviderLinkResult, error)
	CreateUserFromProviderPending(ctx context.Context, pending PendingProviderUser, username string) (*models.User, error)
}
