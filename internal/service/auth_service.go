package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/projects-backend/internal/auth"
	"github.com/spec-kit/projects-backend/internal/domain"
	"github.com/spec-kit/projects-backend/internal/repository"
	apperrors "github.com/spec-kit/projects-backend/pkg/util/errorutil"
)

// referenceHash is a valid bcrypt hash compared against when login hits an
// unknown username, so both failure branches cost one bcrypt comparison and
// return the same outcome. It matches no issued credential.
const referenceHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService coordinates the registration and login flows.
type AuthService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a new identity. The id is always generated here; client
// supplied ids are rejected before this point. Uniqueness is enforced solely
// by the store's unique index, no existence pre-check.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return apperrors.NewConflict("username already taken")
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Login authenticates a user and issues a session token. Unknown username
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	if user == nil {
		// Burn a comparison so this branch is not cheaper than a mismatch.
		_, _ = s.hasher.Verify(password, referenceHash)
		return "", time.Time{}, apperrors.NewAuthenticationFailed()
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	if !ok {
		return "", time.Time{}, apperrors.NewAuthenticationFailed()
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, expiresAt, nil
}
