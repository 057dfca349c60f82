package auth

import "errors"

var (
	ErrFieldsRequired      = errors.New("all fields are required")
	ErrAvatarRequired      = errors.New("avatar file is required")
	ErrUserExists          = errors.New("user with email or username already exists")
	ErrUserNotFound        = errors.New("user does not exist")
	ErrInvalidCredentials  = errors.New("invalid user credentials")
	ErrInvalidPassword     = errors.New("invalid old password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenReused  = errors.New("refresh token is expired or used")
)
