package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const adminRole = "admin"

// CheckAdminPermissionMiddleware lets only store managers through.
func CheckAdminPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("Role")
		if !exists {
			slog.ErrorContext(c, "role missing from a logged in request")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "role unavailable",
			})
			return
		}
		if role != adminRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "permission denied",
			})
			return
		}

		c.Next()
	}
}
