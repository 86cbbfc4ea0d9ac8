package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahumphries/campusnet/internal/models"
	"github.com/ahumphries/campusnet/internal/services"
)

type fakeUserService struct {
	CreateFunc     func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
}

func (f *fakeUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	return f.CreateFunc(ctx, params)
}

func (f *fakeUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.GetByEmailFunc(ctx, email)
}

type fakeAuthService struct {
	HashPasswordFunc   func(password string) (string, error)
	VerifyPasswordFunc func(hash, password string) (bool, error)
	IssueTokenFunc     func(userID uuid.UUID, username string) (string, error)
	VerifyTokenFunc    func(token string) (*services.Claims, error)
}

func (f *fakeAuthService) HashPassword(password string) (string, error) {
	if f.HashPasswordFunc != nil {
		return f.HashPasswordFunc(password)
	}
	return "$2a$10$fakehash", nil
}

func (f *fakeAuthService) VerifyPassword(hash, password string) (bool, error) {
	if f.VerifyPasswordFunc != nil {
		return f.VerifyPasswordFunc(hash, password)
	}
	return true, nil
}

func (f *fakeAuthService) IssueToken(userID uuid.UUID, username string) (string, error) {
	if f.IssueTokenFunc != nil {
		return f.IssueTokenFunc(userID, username)
	}
	return "fake-token", nil
}

func (f *fakeAuthService) VerifyToken(token string) (*services.Claims, error) {
	if f.VerifyTokenFunc != nil {
		return f.VerifyTokenFunc(token)
	}
	return nil, services.ErrTokenInvalid
}

type fakeFriendService struct {
	RequestFunc func(ctx context.Context, requesterID, targetID uuid.UUID) error
	AcceptFunc  func(ctx context.Context, accepterID, requesterID uuid.UUID) error
}

func (f *fakeFriendService) Request(ctx context.Context, requesterID, targetID uuid.UUID) error {
	if f.RequestFunc != nil {
		return f.RequestFunc(ctx, requesterID, targetID)
	}
	return nil
}

func (f *fakeFriendService) Accept(ctx context.Context, accepterID, requesterID uuid.UUID) error {
	if f.AcceptFunc != nil {
		return f.AcceptFunc(ctx, accepterID, requesterID)
	}
	return nil
}

type fakeGroupService struct {
	JoinFunc func(ctx context.Context, userID, groupID uuid.UUID) error
}

func (f *fakeGroupService) Join(ctx context.Context, userID, groupID uuid.UUID) error {
	if f.JoinFunc != nil {
		return f.JoinFunc(ctx, userID, groupID)
	}
	return nil
}

type fakePostService struct {
	CreateFunc       func(ctx context.Context, userID uuid.UUID, description string, isPublished bool) (*models.Post, error)
	ListDraftsFunc   func(ctx context.Context, userID uuid.UUID) ([]models.Post, error)
	PublishDraftFunc func(ctx context.Context, userID, postID uuid.UUID) error
	DeleteDraftFunc  func(ctx context.Context, userID, postID uuid.UUID) error
	AddPhotoFunc     func(ctx context.Context, postID uuid.UUID, imagePath string) (*models.Photo, error)
	LikeFunc         func(ctx context.Context, userID, postID uuid.UUID) error
	CommentFunc      func(ctx context.Context, createdBy, postID uuid.UUID, body string) (*models.Comment, error)
}

func (f *fakePostService) Create(ctx context.Context, userID uuid.UUID, description string, isPublished bool) (*models.Post, error) {
	return f.CreateFunc(ctx, userID, description, isPublished)
}

func (f *fakePostService) ListDrafts(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	return f.ListDraftsFunc(ctx, userID)
}

func (f *fakePostService) PublishDraft(ctx context.Context, userID, postID uuid.UUID) error {
	if f.PublishDraftFunc != nil {
		return f.PublishDraftFunc(ctx, userID, postID)
	}
	return nil
}

func (f *fakePostService) DeleteDraft(ctx context.Context, userID, postID uuid.UUID) error {
	if f.DeleteDraftFunc != nil {
		return f.DeleteDraftFunc(ctx, userID, postID)
	}
	return nil
}

func (f *fakePostService) AddPhoto(ctx context.Context, postID uuid.UUID, imagePath string) (*models.Photo, error) {
	return f.AddPhotoFunc(ctx, postID, imagePath)
}

func (f *fakePostService) Like(ctx context.Context, userID, postID uuid.UUID) error {
	if f.LikeFunc != nil {
		return f.LikeFunc(ctx, userID, postID)
	}
	return nil
}

func (f *fakePostService) Comment(ctx context.Context, createdBy, postID uuid.UUID, body string) (*models.Comment, error) {
	return f.CommentFunc(ctx, createdBy, postID, body)
}

type fakeSearchService struct {
	SearchFunc func(ctx context.Context, query string) (*models.SearchResults, error)
}

func (f *fakeSearchService) Search(ctx context.Context, query string) (*models.SearchResults, error) {
	return f.SearchFunc(ctx, query)
}
