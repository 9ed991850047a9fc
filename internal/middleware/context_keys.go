package middleware

import (
	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// sessionKey is the key used to store the authenticated session in the
// request context.
const sessionKey = contextKey("session")

// GetSessionFromContext retrieves the authenticated session descriptor from
// the Gin context. It returns the session and a boolean indicating whether
// the auth middleware set one.
func GetSessionFromContext(c *gin.Context) (domain.Session, bool) {
	sessionVal := c.Request.Context().Value(sessionKey)
	if sessionVal == nil {
		return domain.Session{}, false
	}
	session, ok := sessionVal.(domain.Session)
	if !ok {
		return domain.Session{}, false
	}
	return session, true
}
