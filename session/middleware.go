package session

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKey = "Session"

// Middleware attaches a *Session to every request, issuing a new session id
// cookie when the request carries none. It must run after the auth
// middleware so the user name is known.
func Middleware(store *Store, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err == nil {
			_, err = uuid.Parse(id)
		}
		if err != nil {
			id = uuid.NewString()
		}
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(store.ttl.Seconds()),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})

		if err := store.Touch(c, id); err != nil {
			slog.WarnContext(c, "session touch failed", "error", err)
		}

		c.Set(contextKey, store.Open(id, c.GetString("Username")))
		c.Next()
	}
}

// FromContext returns the session attached by Middleware.
func FromContext(c *gin.Context) (*Session, bool) {
	value, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	s, ok := value.(*Session)
	return s, ok
}
