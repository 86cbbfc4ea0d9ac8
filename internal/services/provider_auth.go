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
	ErrInvalidProviderClaims   = errors.New("invalid provider claims")
	ErrProviderEmailUnverified = errors.New("provider email not verified")
	ErrProviderIdentityExists  = errors.New("provider identity already linked")
	ErrInvalidProviderPending  = errors.New("invalid provider pending record")
	ErrInvalidUsername         = errors.New("invalid username")
)

// PendingProviderUser is a verified provider identity that has no local
// account yet; the signup completes once the caller picks a username.
type PendingProviderUser struct {
	Provider Provider
	Subject  string
	Email    string
}

type ProviderLinkResult struct {
	User    *models.User
	Pending *PendingProviderUser
}

// ProviderAuthService links identity-provider subjects to local users.
// Provider-only accounts have a NULL password_hash and can never log in
// with a password.
type ProviderAuthService struct {
	db DB
}

func NewProviderAuthService(db DB) *ProviderAuthService {
	return &ProviderAuthService{db: db}
}

// LinkOrFindUserFromProvider resolves verified provider claims to a user.
// Known subject: return the linked user. Unknown subject with a known
// email: link the identity to that user. Otherwise: hand back a pending
// record so the handler can collect a username.
func (s *ProviderAuthService) LinkOrFindUserFromProvider(ctx context.Context, claims IdentityClaims) (*ProviderLinkResult, error) {
	provider := strings.TrimSpace(string(claims.Provider))
	subject := strings.TrimSpace(claims.Subject)
	if provider == "" || subject == "" {
		return nil, ErrInvalidProviderClaims
	}

	linkedUser, err := s.getUserByProviderSubject(ctx, claims.Provider, subject)
	if err == nil {
		return &ProviderLinkResult{User: linkedUser}, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	email := normalizeEmail(claims.Email)
	if email == "" || !claims.EmailVerified {
		return nil, ErrProviderEmailUnverified
	}

	user, err := s.getUserByEmail(ctx, email)
	if err == nil {
		if err := s.linkIdentity(ctx, user.ID, claims.Provider, subject, email); err != nil {
			if errors.Is(err, ErrProviderIdentityExists) {
				existing, lookupErr := s.getUserByProviderSubject(ctx, claims.Provider, subject)
				if lookupErr == nil {
					return &ProviderLinkResult{User: existing}, nil
				}
			}
			return nil, err
		}
		return &ProviderLinkResult{User: user}, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	return &ProviderLinkResult{
		Pending: &PendingProviderUser{
			Provider: claims.Provider,
			Subject:  subject,
			Email:    email,
		},
	}, nil
}

// CreateUserFromProviderPending finishes a provider signup: one transaction
// creates the passwordless user row and the identity link.
func (s *ProviderAuthService) CreateUserFromProviderPending(ctx context.Context, pending PendingProviderUser, username string) (*models.User, error) {
	if strings.TrimSpace(string(pending.Provider)) == "" || strings.TrimSpace(pending.Subject) == "" {
		return nil, ErrInvalidProviderPending
	}
	email := normalizeEmail(pending.Email)
	if email == "" {
		return nil, ErrInvalidProviderPending
	}

	username = strings.TrimSpace(username)
	if len(username) < 2 || len(username) > 100 {
		return nil, ErrInvalidUsername
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback is a no-op after commit

	user := &models.User{}
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, NULL)
		 RETURNING user_id, username, email, password_hash, created_at`,
		username, email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, s.resolveUserInsertConflict(ctx, email, username, tx)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO user_identities (user_id, provider, subject, email_at_link_time)
		 VALUES ($1, $2, $3, $4)`,
		user.ID, pending.Provider, pending.Subject, email,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProviderIdentityExists
		}
		return nil, fmt.Errorf("linking user identity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return user, nil
}

func (s *ProviderAuthService) linkIdentity(ctx context.Context, userID uuid.UUID, provider Provider, subject, email string) error {
	if _, err := s.db.Exec(ctx,
		`INSERT INTO user_identities (user_id, provider, subject, email_at_link_time)
		 VALUES ($1, $2, $3, $4)`,
		userID, provider, subject, email,
	); err != nil {
		if isUniqueViolation(err) {
			return ErrProviderIdentityExists
		}
		return fmt.Errorf("inserting user identity: %w", err)
	}
	return nil
}

func (s *ProviderAuthService) getUserByProviderSubject(ctx context.Context, provider Provider, subject string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT u.user_id, u.username, u.email, u.password_hash, u.created_at
		 FROM user_identities ui
		 JOIN users u ON u.user_id = ui.user_id
		 WHERE ui.provider = $1 AND ui.subject = $2`,
		provider, subject,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by provider subject: %w", err)
	}
	return user, nil
}

func (s *ProviderAuthService) getUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return user, nil
}

func (s *ProviderAuthService) resolveUserInsertConflict(ctx context.Context, email, username string, db Querier) error {
	var exists bool
	if err := db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)",
		email,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking email existence: %w", err)
	}
	if exists {
		return ErrEmailAlreadyExists
	}

	if err := db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))",
		username,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking username existence: %w", err)
	}
	if exists {
		return ErrUsernameAlreadyExists
	}
	return ErrInvalidProviderClaims
}
