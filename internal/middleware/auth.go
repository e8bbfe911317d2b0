package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodgram/internal/domain/user"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
)

const identityKey = "identity"

// RequireAuth resolves the Bearer token to a full user row and aborts with
// 401 when it cannot. Handlers behind it can rely on CurrentUser being
// non-nil.
func RequireAuth(jwtService *jwt.Service, users *user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := resolveIdentity(c, jwtService, users)
		if identity == nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth resolves the identity when a valid token is present and
// continues anonymously otherwise. Read paths use it to compute derived
// flags without requiring login.
func OptionalAuth(jwtService *jwt.Service, users *user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := resolveIdentity(c, jwtService, users); identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated identity or nil for anonymous
// requests.
func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*user.User)
	if !ok {
		return nil
	}
	return identity
}

// CurrentUserID returns the authenticated user id, 0 for anonymous.
func CurrentUserID(c *gin.Context) int64 {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

func resolveIdentity(c *gin.Context, jwtService *jwt.Service, users *user.Repository) *user.User {
	h := c.GetHeader("Authorization")
	if h == "" {
		return nil
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil
	}

	claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}

	identity, err := users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil
	}
	return identity
}
