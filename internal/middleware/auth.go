package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"vidshare/internal/domain"
	"vidshare/internal/pkg/jwt"
	"vidshare/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const accessCookieName = "accessToken"

// UserResolver looks up the account behind a verified access token.
type UserResolver interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Authenticate extracts the bearer credential (accessToken cookie first,
// Authorization header as fallback), verifies it as an access token and
// attaches the sanitized user to the request context. Verification failure
// and unknown-user both answer with the same external message; the
// distinct cause goes to the log only.
func Authenticate(codec *jwt.Codec, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "Unauthorized request")
			return
		}

		claims, err := codec.ParseAccess(token)
		if err != nil {
			log.Printf("access token rejected path=%s error=%q", c.Request.URL.Path, err)
			response.AbortError(c, http.StatusUnauthorized, "Invalid Access Token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			log.Printf("access token user lookup failed path=%s user_id=%d error=%q", c.Request.URL.Path, claims.UserID, err)
			response.AbortError(c, http.StatusUnauthorized, "Invalid Access Token")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user.Sanitized())

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if cookie, err := c.Cookie(accessCookieName); err == nil && cookie != "" {
		return cookie
	}

	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
