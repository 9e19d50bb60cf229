package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuseats/canteen/internal/domain/model"
	pkgAuth "github.com/campuseats/canteen/internal/pkg/auth"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	// UserRoleContextKey is a gin context key for authenticated user role.
	UserRoleContextKey = "userRole"
	authCookieName     = "canteen_token"
)

// TokenParser validates auth tokens and extracts their subject.
type TokenParser interface {
	ParseToken(token string) (string, model.UserRole, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		userID, role, err := parser.ParseToken(token)
		if err != nil {
			if err == pkgAuth.ErrInvalidToken {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Set(UserRoleContextKey, role)
		c.Next()
	}
}

// RequireStaff rejects requests from non-staff roles. Must run after AuthRequired.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(UserRoleContextKey)
		if !ok {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		role, _ := val.(model.UserRole)
		if !role.Staff() {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
