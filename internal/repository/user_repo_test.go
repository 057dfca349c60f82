package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vidshare/internal/database"
	"vidshare/internal/domain"
)

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	repo := NewUserRepository(db)
	require.NoError(t, repo.Migrate())
	return repo
}

func newUser(username, email string) *domain.User {
	return &domain.User{
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		AvatarURL:    "/static/uploads/avatar.png",
		PasswordHash: "not-a-real-hash",
	}
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice", "a@x.com")))

	// The constraint fires inside the driver; the repository must still
	// surface it as gorm.ErrDuplicatedKey for errors.Is dispatch.
	err := repo.Create(ctx, newUser("alice", "other@x.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice", "a@x.com")))

	err := repo.Create(ctx, newUser("bob", "a@x.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_UpdateAccount_DuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice", "a@x.com")))
	bob := newUser("bob", "b@x.com")
	require.NoError(t, repo.Create(ctx, bob))

	err := repo.UpdateAccount(ctx, bob.ID, "", "a@x.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_GetByIdentity_CaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("Alice", "A@X.com")))

	byName, err := repo.GetByIdentity(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "alice", byName.Username)

	byEmail, err := repo.GetByIdentity(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, byEmail.ID)
}

func TestUserRepository_RotateRefreshToken_CompareAndSwap(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := newUser("alice", "a@x.com")
	require.NoError(t, repo.Create(ctx, user))

	current := "token-1"
	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, &current))

	rotated, err := repo.RotateRefreshToken(ctx, user.ID, "token-1", "token-2")
	require.NoError(t, err)
	assert.True(t, rotated)

	// The swapped-away value no longer matches; a second rotation with it
	// must lose.
	rotated, err = repo.RotateRefreshToken(ctx, user.ID, "token-1", "token-3")
	require.NoError(t, err)
	assert.False(t, rotated)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "token-2", *got.RefreshToken)
}
