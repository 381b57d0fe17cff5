package middleware

import (
	"net/http"
	"strings"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIDKey = "userId"
	roleKey   = "role"
)

// AuthMiddleware requires a valid access token and stores the caller in the
// gin context.
func AuthMiddleware(tm *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := tm.ValidateAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, claims.UserID.String())
		c.Set(roleKey, string(claims.Role))

		c.Next()
	}
}

// OptionalAuth reads the access token when one is sent and lets anonymous
// requests through.
func OptionalAuth(tm *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token != "" {
			if claims, err := tm.ValidateAccessToken(token); err == nil {
				c.Set(userIDKey, claims.UserID.String())
				c.Set(roleKey, string(claims.Role))
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(roleKey) != string(domain.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admins only"})
			return
		}
		c.Next()
	}
}

// Actor returns the authenticated caller, false for anonymous requests.
func Actor(c *gin.Context) (domain.Actor, bool) {
	id, err := uuid.Parse(c.GetString(userIDKey))
	if err != nil {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: id, Role: domain.Role(c.GetString(roleKey))}, true
}
