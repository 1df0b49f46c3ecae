package middleware

import (
	"github.com/gin-gonic/gin"

	"realestate/internal/auth"
	"realestate/internal/models"
)

const sessionKey = "session"

// Session is the authenticated caller of the current request.
type Session struct {
	User   models.User
	Claims *auth.Claims
}

func setSession(c *gin.Context, s *Session) {
	c.Set(sessionKey, s)
}

func CurrentSession(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	s, ok := CurrentSession(c)
	if !ok {
		return models.User{}, false
	}
	return s.User, true
}

// IsAdmin reports whether the request carries an admin session.
func IsAdmin(c *gin.Context) bool {
	u, ok := CurrentUser(c)
	return ok && u.IsAdmin()
}
