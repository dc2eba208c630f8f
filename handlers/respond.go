package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"MusicStore/cart"
	"MusicStore/session"

	"github.com/gin-gonic/gin"
)

// respondError answers with the status matching the error kind. Unexpected
// failures are logged.
func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cart.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, cart.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, cart.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(c, message,
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
	}
	c.JSON(status, gin.H{
		"message": message,
		"error":   err.Error(),
	})
}

// resolveOwnerKey writes the error response itself and reports false when
// the cart owner cannot be determined.
func resolveOwnerKey(c *gin.Context) (string, bool) {
	sess, ok := session.FromContext(c)
	if !ok {
		respondError(c, "session unavailable", errors.New("session middleware not installed"))
		return "", false
	}

	key, err := cart.ResolveOwnerKey(c, sess)
	if err != nil {
		respondError(c, "cannot resolve cart", err)
		return "", false
	}
	return key, true
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}
