package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/projects-backend/internal/auth"
	"github.com/spec-kit/projects-backend/internal/domain"
	"github.com/spec-kit/projects-backend/internal/repository"
	apperrors "github.com/spec-kit/projects-backend/pkg/util/errorutil"
)

// memoryUserRepo is an in-memory UserRepository enforcing the username
// unique constraint at insert time, like the real store.
type memoryUserRepo struct {
	byUsername map[string]*domain.User
	insertErr  error
	findErr    error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byUsername: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) Insert(_ context.Context, user *domain.User) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.byUsername[user.Username]; exists {
		return repository.ErrUsernameTaken
	}
	user.CreatedAt = time.Now()
	stored := *user
	r.byUsername[user.Username] = &stored
	return nil
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	user, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.byUsername {
		if user.ID == id {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

// failingHasher always errors on Hash.
type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) {
	return "", errors.New("primitive failure")
}

func (failingHasher) Verify(string, string) (bool, error) {
	return false, errors.New("primitive failure")
}

func newTestAuthService(repo repository.UserRepository) *AuthService {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(repo, hasher, tokens)
}

func domainErrFrom(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "s3cret!"))

	stored := repo.byUsername["alice"]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.ID)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)

	token, expiresAt, err := svc.Login(ctx, "alice", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := auth.NewTokenManager("test-secret", time.Hour).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, stored.ID, claims.Subject)
}

func TestAuthService_DuplicateUsernameConflicts(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "first"))

	err := svc.Register(ctx, "alice", "second")
	domainErr := domainErrFrom(t, err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, 409, domainErr.HTTPStatus)
	assert.Len(t, repo.byUsername, 1)
}

func TestAuthService_HashFailureAbortsRegistration(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := NewAuthService(repo, failingHasher{}, auth.NewTokenManager("s", time.Hour))

	err := svc.Register(context.Background(), "alice", "pw")
	domainErr := domainErrFrom(t, err)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, 500, domainErr.HTTPStatus)
	assert.Empty(t, repo.byUsername, "nothing may be stored after a hash failure")
}

func TestAuthService_StoreFailureIsInternal(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	repo.insertErr = errors.New("connection reset")
	svc := newTestAuthService(repo)

	err := svc.Register(context.Background(), "alice", "pw")
	domainErr := domainErrFrom(t, err)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
}

func TestAuthService_LoginFailuresAreUniform(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "s3cret!"))

	_, _, unknownErr := svc.Login(ctx, "nobody", "whatever")
	_, _, wrongPwErr := svc.Login(ctx, "alice", "wrong")

	unknown := domainErrFrom(t, unknownErr)
	wrongPw := domainErrFrom(t, wrongPwErr)

	assert.Equal(t, wrongPw.Code, unknown.Code)
	assert.Equal(t, wrongPw.HTTPStatus, unknown.HTTPStatus)
	assert.Equal(t, wrongPw.Message, unknown.Message)
	assert.Equal(t, 400, wrongPw.HTTPStatus)
}

func TestAuthService_LoginStoreFailureIsInternal(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	repo.findErr = errors.New("connection reset")
	svc := newTestAuthService(repo)

	_, _, err := svc.Login(context.Background(), "alice", "pw")
	domainErr := domainErrFrom(t, err)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, 500, domainErr.HTTPStatus)
}
