package middleware

import (
	"strings"

	"playbook-pipeline/internal/shared/response"
	"playbook-pipeline/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Context keys set by Authenticate
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// Authenticate - verifies the Bearer access token and stores the caller's
// identity in the gin context. Role checks happen downstream.
func Authenticate(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// 2. Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify and parse
		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(ContextRequestID)).Msg("Token rejected")
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// IsAdmin reports whether the authenticated caller carries the admin role.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextRole) == jwt.RoleAdmin
}

// Actor names the authenticated caller for audit fields: email when the
// token has one, otherwise the user id.
func Actor(c *gin.Context) string {
	if email := c.GetString(ContextEmail); email != "" {
		return email
	}
	return c.GetString(ContextUserID)
}
