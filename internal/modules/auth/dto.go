package auth

import "time"

// RegisterRequest arrives as multipart/form-data: text fields plus the
// avatar (required) and coverImage (optional) files, which the handler
// spools to local paths before calling the service.
type RegisterRequest struct {
	FullName string `form:"fullName" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required,min=3"`
	Password string `form:"password" validate:"required,min=6"`

	AvatarPath     string `form:"-" validate:"-"`
	CoverImagePath string `form:"-" validate:"-"`
}

// LoginRequest needs either username or email plus the password.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// TokenPair is a freshly issued access+refresh pair with expiries, used by
// the handler to set cookie lifetimes.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}
