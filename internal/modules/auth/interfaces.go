package auth

import (
	"context"

	"vidshare/internal/domain"
)

// UserRepositoryInterface holds only the methods the auth service uses.
// The refresh-token column is the session state: SetRefreshToken is the
// plain overwrite (login, logout), RotateRefreshToken the conditional one.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIdentity(ctx context.Context, usernameOrEmail string) (*domain.User, error)
	ExistsByIdentity(ctx context.Context, username, email string) (bool, error)
	SetRefreshToken(ctx context.Context, userID int64, token *string) error
	RotateRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateAccount(ctx context.Context, userID int64, fullName, email string) error
	UpdateAvatar(ctx context.Context, userID int64, url string) error
	UpdateCoverImage(ctx context.Context, userID int64, url string) error
}

// MediaUploader is the upload collaborator: local file path in, public URL
// out. Failures propagate as upload errors, never as partial writes.
// RemoveByURL rolls an upload back when the surrounding operation fails.
type MediaUploader interface {
	UploadFromPath(ctx context.Context, userID int64, localPath string) (string, error)
	RemoveByURL(ctx context.Context, fileURL string) error
}
