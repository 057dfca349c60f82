package domain

import "time"

// User is the account record owned by the persistent store.
// PasswordHash and RefreshToken never leave the backend: both are excluded
// from JSON, and RefreshToken additionally holds the single currently valid
// refresh token for the account (nil when logged out).
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatarUrl"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	PasswordHash  string    `json:"-"`
	RefreshToken  *string   `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Sanitized returns a copy safe to hand to callers: the password digest and
// the stored refresh token are cleared.
func (u User) Sanitized() *User {
	u.PasswordHash = ""
	u.RefreshToken = nil
	return &u
}
