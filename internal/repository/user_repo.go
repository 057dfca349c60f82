package repository

import (
	"context"
	"strings"
	"time"

	"vidshare/internal/database"
	"vidshare/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Username      string    `gorm:"column:username;uniqueIndex"`
	Email         string    `gorm:"column:email;uniqueIndex"`
	FullName      string    `gorm:"column:full_name"`
	AvatarURL     string    `gorm:"column:avatar_url"`
	CoverImageURL *string   `gorm:"column:cover_image_url"`
	PasswordHash  string    `gorm:"column:password_hash"`
	RefreshToken  *string   `gorm:"column:refresh_token"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var cover string
	if m.CoverImageURL != nil {
		cover = *m.CoverImageURL
	}

	return &domain.User{
		ID:            m.ID,
		Username:      m.Username,
		Email:         m.Email,
		FullName:      m.FullName,
		AvatarURL:     m.AvatarURL,
		CoverImageURL: cover,
		PasswordHash:  m.PasswordHash,
		RefreshToken:  m.RefreshToken,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var cover *string
	if u.CoverImageURL != "" {
		v := u.CoverImageURL
		cover = &v
	}

	return userModel{
		ID:            u.ID,
		Username:      strings.ToLower(strings.TrimSpace(u.Username)),
		Email:         strings.ToLower(strings.TrimSpace(u.Email)),
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: cover,
		PasswordHash:  u.PasswordHash,
		RefreshToken:  u.RefreshToken,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// Migrate creates the users table. Used by local dev and the test suites;
// production schemas are managed externally.
func (r *UserRepository) Migrate() error {
	return r.db.AutoMigrate(&userModel{})
}

// Create inserts the user. Unique-constraint violations on username or
// email surface as gorm.ErrDuplicatedKey; the store constraint is the real
// backstop behind the service's existence pre-check.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return database.TranslateDuplicateKey(tx.Error)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// GetByIdentity resolves a user by username or email, matching either field
// on the lowercase-normalized form.
func (r *UserRepository) GetByIdentity(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	identity := strings.ToLower(strings.TrimSpace(usernameOrEmail))

	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", identity, identity).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByIdentity(ctx context.Context, username, email string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("LOWER(username) = ? OR LOWER(email) = ?",
			strings.ToLower(strings.TrimSpace(username)),
			strings.ToLower(strings.TrimSpace(email))).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

// SetRefreshToken overwrites the user's stored refresh token. A nil token
// clears the session (logout). The write is a single atomic field update.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"refresh_token": token, "updated_at": time.Now()}).Error
}

// RotateRefreshToken replaces oldToken with newToken only if oldToken is
// still the stored value, a compare-and-swap: two concurrent rotations of
// the same token cannot both succeed. Returns false when the stored token
// no longer matches (rotated away, logged out, or never set).
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND refresh_token = ?", userID, oldToken).
		Updates(map[string]any{"refresh_token": newToken, "updated_at": time.Now()})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"password_hash": passwordHash, "updated_at": time.Now()}).Error
}

func (r *UserRepository) UpdateAccount(ctx context.Context, userID int64, fullName, email string) error {
	updates := map[string]any{"updated_at": time.Now()}
	if fullName != "" {
		updates["full_name"] = fullName
	}
	if email != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	return database.TranslateDuplicateKey(r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(updates).Error)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, url string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"avatar_url": url, "updated_at": time.Now()}).Error
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, userID int64, url string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"cover_image_url": url, "updated_at": time.Now()}).Error
}
