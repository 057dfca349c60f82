package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"vidshare/internal/domain"
	"vidshare/internal/pkg/response"
	"vidshare/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// CookieConfig carries the transport policy for the token cookies. Both
// cookies are always HttpOnly; they must never be client-script-readable.
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
	Path     string
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookies CookieConfig
}

// NewHandler creates a new auth handler with injected service
func NewHandler(service *Service, cookies CookieConfig) *Handler {
	if cookies.Path == "" {
		cookies.Path = "/"
	}
	if cookies.SameSite == 0 {
		cookies.SameSite = http.SameSiteLaxMode
	}
	return &Handler{service: service, cookies: cookies}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	users := v1.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/refresh-token", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.POST("/logout", h.Logout)
		users.POST("/change-password", h.ChangePassword)
		users.GET("/me", h.Me)
		users.PATCH("/me", h.UpdateAccount)
		users.PATCH("/avatar", h.UpdateAvatar)
		users.PATCH("/cover-image", h.UpdateCoverImage)
	}
}

// Register accepts multipart/form-data: fullName, email, username,
// password, an avatar file (required) and a coverImage file (optional).
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validator.Struct(req); fields != nil {
		errs := make([]string, 0, len(fields))
		for field, tag := range fields {
			errs = append(errs, fmt.Sprintf("%s: %s", field, tag))
		}
		response.Error(c, http.StatusBadRequest, "All fields are required", errs...)
		return
	}

	avatarPath, cleanupAvatar, err := h.spoolFile(c, "avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Avatar file is required")
		return
	}
	defer cleanupAvatar()
	req.AvatarPath = avatarPath

	if coverPath, cleanupCover, err := h.spoolFile(c, "coverImage"); err == nil {
		defer cleanupCover()
		req.CoverImagePath = coverPath
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user, "User registered successfully")
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Username or email is required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setAuthCookies(c, result.Tokens)
	response.Success(c, http.StatusOK, gin.H{
		"user":         result.User,
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	}, "User logged in successfully")
}

// Logout requires an authenticated session; it clears the stored refresh
// token and expires both cookies. Calling it twice is not an error.
func (h *Handler) Logout(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}

	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, nil, "User logged out")
}

// Refresh rotates the session: refresh token from cookie or request body,
// new pair out, old token invalid from this point on.
func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setAuthCookies(c, *tokens)
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, "Access token refreshed")
}

func (h *Handler) ChangePassword(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Old and new password are required")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil, "Password changed successfully")
}

// Me returns the user the request authenticator resolved.
func (h *Handler) Me(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}
	response.Success(c, http.StatusOK, user.(*domain.User), "Current user fetched successfully")
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateAccount(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user, "Account details updated successfully")
}

func (h *Handler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.service.UpdateAvatar, "Avatar updated successfully")
}

func (h *Handler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.service.UpdateCoverImage, "Cover image updated successfully")
}

func (h *Handler) updateImage(
	c *gin.Context,
	field string,
	update func(ctx context.Context, userID int64, localPath string) (*domain.User, error),
	message string,
) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	localPath, cleanup, err := h.spoolFile(c, field)
	if err != nil {
		response.Error(c, http.StatusBadRequest, fmt.Sprintf("%s file is required", field))
		return
	}
	defer cleanup()

	user, err := update(c.Request.Context(), userID, localPath)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user, message)
}

// spoolFile writes the named multipart file to a temp path (multer-style)
// so the service layer only ever sees local file paths.
func (h *Handler) spoolFile(c *gin.Context, field string) (string, func(), error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil, err
	}

	tmpPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("vidshare_%d_%s", time.Now().UnixNano(), filepath.Base(fileHeader.Filename)))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		return "", nil, err
	}
	return tmpPath, func() { _ = os.Remove(tmpPath) }, nil
}

// respondError maps service failures onto the error envelope. Token
// verification failures collapse into a single 401 externally; the precise
// cause only goes to the log.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrFieldsRequired):
		response.Error(c, http.StatusBadRequest, ErrFieldsRequired.Error())
	case errors.Is(err, ErrAvatarRequired):
		response.Error(c, http.StatusBadRequest, ErrAvatarRequired.Error())
	case errors.Is(err, ErrUserExists):
		response.Error(c, http.StatusConflict, ErrUserExists.Error())
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, ErrUserNotFound.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrInvalidPassword):
		response.Error(c, http.StatusUnauthorized, ErrInvalidPassword.Error())
	case errors.Is(err, ErrInvalidRefreshToken), errors.Is(err, ErrRefreshTokenReused):
		log.Printf("refresh rejected path=%s error=%q", c.Request.URL.Path, err)
		response.Error(c, http.StatusUnauthorized, ErrInvalidRefreshToken.Error())
	default:
		log.Printf("auth internal error path=%s error=%q", c.Request.URL.Path, err)
		response.Error(c, http.StatusInternalServerError, "Something went wrong")
	}
}

func (h *Handler) setAuthCookies(c *gin.Context, tokens TokenPair) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(accessCookieName, tokens.AccessToken,
		int(time.Until(tokens.AccessExpiresAt).Seconds()), h.cookies.Path, "", h.cookies.Secure, true)
	c.SetCookie(refreshCookieName, tokens.RefreshToken,
		int(time.Until(tokens.RefreshExpiresAt).Seconds()), h.cookies.Path, "", h.cookies.Secure, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(accessCookieName, "", -1, h.cookies.Path, "", h.cookies.Secure, true)
	c.SetCookie(refreshCookieName, "", -1, h.cookies.Path, "", h.cookies.Secure, true)
}
