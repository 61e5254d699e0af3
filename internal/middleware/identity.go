// Package middleware provides identity, validation and recovery middleware
// for the Gin web framework.
package middleware

import (
	"net/http"

	contextutils "quizarena/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeader is the header carrying the caller's identity. Upstream
	// infrastructure (gateway or client) is trusted to set it.
	UserIDHeader = "X-User-ID"

	// UserIDKey is the key used to store the user ID in the gin context
	UserIDKey = "user_id"
)

// RequireIdentity returns a middleware that requires the X-User-ID header.
// The user ID is stored both in the gin context and in the request context so
// services and log correlation can read it.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Identity required",
				"code":  string(contextutils.ErrorCodeUnauthorized),
			})
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(contextutils.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// GetUserID returns the authenticated user ID from the gin context, or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
