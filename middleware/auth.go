package middleware

import (
	"log/slog"
	"strings"

	"MusicStore/jwt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware identifies the caller from a Bearer token. Requests without
// a valid token go through as anonymous.
func AuthMiddleware(db *gorm.DB, signer *jwt.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" {
			c.Header("Authorization", "")
			c.Next()
			return
		}

		claims, err := signer.VerifyToken(token, db)
		if err != nil {
			slog.InfoContext(c, "token rejected", "error", err)
			c.Header("Authorization", "")
			c.Next()
			return
		}

		c.Header("Authorization", authHeader)
		c.Set("Token", token)
		c.Set("UserID", claims.UserID)
		c.Set("Username", claims.Username)
		c.Set("Role", claims.Role)
		c.Next()
	}
}
