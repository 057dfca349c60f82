package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vidshare/internal/domain"
	"vidshare/internal/pkg/jwt"
)

type stubResolver struct {
	user *domain.User
}

func (s *stubResolver) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func newTestRouter(t *testing.T, codec *jwt.Codec, resolver *stubResolver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Authenticate(codec, resolver))
	router.GET("/protected", func(c *gin.Context) {
		user, _ := c.Get("user")
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("user_id"),
			"user":    user,
		})
	})
	return router
}

func testCodec(t *testing.T) *jwt.Codec {
	t.Helper()
	codec, err := jwt.New("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return codec
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	codec := testCodec(t)
	resolver := &stubResolver{user: &domain.User{ID: 42, Username: "alice", PasswordHash: "secret"}}
	router := newTestRouter(t, codec, resolver)

	token, _, err := codec.IssueAccess(42, "alice", "a@x.com", "Alice A")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
	// Sanitized: the password digest never reaches handlers' view.
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestAuthenticate_Cookie(t *testing.T) {
	codec := testCodec(t)
	resolver := &stubResolver{user: &domain.User{ID: 42, Username: "alice"}}
	router := newTestRouter(t, codec, resolver)

	token, _, err := codec.IssueAccess(42, "alice", "a@x.com", "Alice A")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_CookieBeatsHeader(t *testing.T) {
	codec := testCodec(t)
	resolver := &stubResolver{user: &domain.User{ID: 42, Username: "alice"}}
	router := newTestRouter(t, codec, resolver)

	token, _, err := codec.IssueAccess(42, "alice", "a@x.com", "Alice A")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_MissingCredential(t *testing.T) {
	router := newTestRouter(t, testCodec(t), &stubResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized request")
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	router := newTestRouter(t, testCodec(t), &stubResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Access Token")
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	// A refresh token is not an access credential even though it is a
	// validly signed token.
	codec := testCodec(t)
	resolver := &stubResolver{user: &domain.User{ID: 42}}
	router := newTestRouter(t, codec, resolver)

	refresh, _, err := codec.IssueRefresh(42)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Access Token")
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	// Same external answer as a bad token: no identity-enumeration oracle.
	codec := testCodec(t)
	router := newTestRouter(t, codec, &stubResolver{})

	token, _, err := codec.IssueAccess(7, "ghost", "g@x.com", "Ghost")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Access Token")
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	expiredCodec, err := jwt.New("access-secret", "refresh-secret", -time.Minute, 24*time.Hour)
	require.NoError(t, err)
	router := newTestRouter(t, testCodec(t), &stubResolver{user: &domain.User{ID: 42}})

	token, _, err := expiredCodec.IssueAccess(42, "alice", "a@x.com", "Alice A")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Access Token")
}
