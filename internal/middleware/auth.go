package middleware

import (
	"errors"
	"net/http"
	"strings"

	"tesla-crm/internal/dto"
	apperrors "tesla-crm/internal/errors"
	"tesla-crm/internal/models"
	"tesla-crm/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ===========================================================================
// Auth Middleware
// Protect routes with JWT authentication
// ===========================================================================

// Context keys for auth data
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyClaims   = "claims"
)

// Auth verifies the JWT from cookie or Authorization header
func Auth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// httpOnly cookie first
		if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
			tokenString = cookie
		}

		// fallback to Authorization header for API clients
		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					tokenString = parts[1]
				}
			}
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse("UNAUTHORIZED", "Authentication required"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, dto.ErrorResponse("TOKEN_EXPIRED", "Token has expired"))
			} else {
				c.JSON(http.StatusUnauthorized, dto.ErrorResponse("INVALID_TOKEN", "Invalid token"))
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserRole, claims.Role)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// RequireRole allows only the listed roles past this point
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextKeyUserRole)
		if !exists {
			c.JSON(http.StatusForbidden, dto.ErrorResponse("FORBIDDEN", "Access denied"))
			c.Abort()
			return
		}

		userRole := role.(models.UserRole)
		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, dto.ErrorResponse("FORBIDDEN", "Insufficient permissions"))
		c.Abort()
	}
}

// RequireAdmin allows only admins
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// ===========================================================================
// Context helpers
// ===========================================================================

// GetUserID returns the authenticated user's ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}

// GetUserRole returns the authenticated user's role from the context
func GetUserRole(c *gin.Context) (models.UserRole, bool) {
	role, exists := c.Get(ContextKeyUserRole)
	if !exists {
		return "", false
	}
	return role.(models.UserRole), true
}

// GetClaims returns the full token claims from the context
func GetClaims(c *gin.Context) (*services.Claims, bool) {
	claims, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	return claims.(*services.Claims), true
}
