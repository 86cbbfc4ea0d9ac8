package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ahumphries/campusnet/internal/models"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already taken")
)

type UserService struct {
	db DBConn
}

func NewUserService(db DBConn) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING user_id, username, email, password_hash, created_at`,
		params.Username, normalizeEmail(params.Email), params.PasswordHash,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, s.resolveInsertConflict(ctx, params.Email, params.Username)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, created_at
		 FROM users WHERE user_id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by id: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, created_at
		 FROM users WHERE email = $1`,
		normalizeEmail(email),
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	return user, nil
}

// resolveInsertConflict decides which unique constraint an insert hit so the
// caller gets a specific error instead of a raw 23505.
func (s *UserService) resolveInsertConflict(ctx context.Context, email, username string) error {
	var exists bool
	if err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)",
		normalizeEmail(email),
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking email existence: %w", err)
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	return ErrUsernameAlreadyExists
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
