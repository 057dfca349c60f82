package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"vidshare/internal/domain"
	"vidshare/internal/pkg/jwt"

	"gorm.io/gorm"
)

type tokenCodec interface {
	IssueAccess(userID int64, username, email, fullName string) (string, time.Time, error)
	IssueRefresh(userID int64) (string, time.Time, error)
	ParseRefresh(token string) (*jwt.RefreshClaims, error)
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// Service contains all business logic for the credential and session token
// lifecycle. Session state is the single refresh-token field on the user
// record: at most one refresh token is valid per user at a time.
type Service struct {
	users    UserRepositoryInterface
	codec    tokenCodec
	hasher   passwordHasher
	uploader MediaUploader
}

type LoginResult struct {
	User   *domain.User
	Tokens TokenPair
}

func NewService(users UserRepositoryInterface, codec tokenCodec, hasher passwordHasher, uploader MediaUploader) *Service {
	return &Service{
		users:    users,
		codec:    codec,
		hasher:   hasher,
		uploader: uploader,
	}
}

// Register creates a new account. The password is hashed before anything
// is persisted, the avatar must resolve to a remote URL or the whole
// operation aborts, and the cover image is optional. The existence
// pre-check and the insert are not one transaction; the store's uniqueness
// constraint is the backstop for the duplicate-registration race.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, ErrFieldsRequired
	}

	exists, err := s.users.ExistsByIdentity(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	if req.AvatarPath == "" {
		return nil, ErrAvatarRequired
	}
	avatarURL, err := s.uploader.UploadFromPath(ctx, 0, req.AvatarPath)
	if err != nil || avatarURL == "" {
		return nil, fmt.Errorf("%w: upload failed: %v", ErrAvatarRequired, err)
	}

	// Cover image is optional and defaults to empty on upload failure.
	var coverURL string
	if req.CoverImagePath != "" {
		coverURL, _ = s.uploader.UploadFromPath(ctx, 0, req.CoverImagePath)
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		PasswordHash:  passwordHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A failed insert must leave nothing behind, including the files
		// uploaded moments earlier.
		s.discardUploads(ctx, avatarURL, coverURL)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return user.Sanitized(), nil
}

func (s *Service) discardUploads(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.uploader.RemoveByURL(ctx, url); err != nil {
			log.Printf("orphan upload cleanup failed url=%s error=%q", url, err)
		}
	}
}

// Login resolves the user by username or email, verifies the password,
// issues an access+refresh pair and persists the refresh token as the
// user's current session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	identity := strings.TrimSpace(req.Username)
	if identity == "" {
		identity = strings.TrimSpace(req.Email)
	}
	if identity == "" {
		return nil, ErrFieldsRequired
	}

	user, err := s.users.GetByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &LoginResult{User: user.Sanitized(), Tokens: tokens}, nil
}

// Logout clears the stored refresh token. This is the only path that
// revokes a session without issuing a replacement; it is idempotent.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.users.SetRefreshToken(ctx, userID, nil)
}

// Refresh validates the presented refresh token and atomically rotates it.
// Validity requires both a good signature/expiry and equality with the
// persisted token: once rotated away, an old token fails here even while
// cryptographically unexpired. The swap itself is conditional on the stored
// value, so concurrent rotations of the same token produce one winner.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.ParseRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, ErrRefreshTokenReused
	}

	tokens, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	rotated, err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, tokens.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// Lost the race: someone rotated or logged out between the read
		// and the swap.
		return nil, ErrRefreshTokenReused
	}

	return &tokens, nil
}

// ChangePassword verifies the current password before accepting the new
// one. The stored refresh token is deliberately left untouched: a password
// change does not force re-login in this design.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return ErrInvalidPassword
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *Service) UpdateAccount(ctx context.Context, userID int64, req UpdateAccountRequest) (*domain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	if fullName == "" && email == "" {
		return nil, ErrFieldsRequired
	}

	if err := s.users.UpdateAccount(ctx, userID, fullName, email); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return s.GetCurrentUser(ctx, userID)
}

// UpdateAvatar uploads a replacement avatar and stores its URL.
func (s *Service) UpdateAvatar(ctx context.Context, userID int64, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, ErrAvatarRequired
	}

	url, err := s.uploader.UploadFromPath(ctx, userID, localPath)
	if err != nil || url == "" {
		return nil, fmt.Errorf("%w: upload failed: %v", ErrAvatarRequired, err)
	}

	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, err
	}
	return s.GetCurrentUser(ctx, userID)
}

func (s *Service) UpdateCoverImage(ctx context.Context, userID int64, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, ErrFieldsRequired
	}

	url, err := s.uploader.UploadFromPath(ctx, userID, localPath)
	if err != nil || url == "" {
		return nil, fmt.Errorf("%w: upload failed: %v", ErrFieldsRequired, err)
	}

	if err := s.users.UpdateCoverImage(ctx, userID, url); err != nil {
		return nil, err
	}
	return s.GetCurrentUser(ctx, userID)
}

func (s *Service) issuePair(user *domain.User) (TokenPair, error) {
	accessToken, accessExp, err := s.codec.IssueAccess(user.ID, user.Username, user.Email, user.FullName)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, refreshExp, err := s.codec.IssueRefresh(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
