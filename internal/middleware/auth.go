package middleware

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"realestate/internal/apperr"
	"realestate/internal/auth"
	"realestate/internal/models"
	"realestate/internal/store"
)

const notAuthorized = "Not authorized to access this route"

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(strings.TrimSpace(header))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// authenticate resolves the bearer token on the request to an active user.
func authenticate(c *gin.Context, users store.UserStore, secret string) (*Session, error) {
	raw, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return nil, apperr.Unauthorized(notAuthorized)
	}

	claims, err := auth.ParseAccessToken(raw, secret)
	if err != nil {
		log.Println("[AUTH] [ERROR] token validation failed:", err)
		return nil, apperr.Unauthorized(notAuthorized)
	}
	userID, err := claims.UserID()
	if err != nil {
		log.Println("[AUTH] [ERROR] invalid sub claim")
		return nil, apperr.Unauthorized(notAuthorized)
	}

	user, err := users.FindByID(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) || err == nil && user.PendingDeletion {
		return nil, apperr.Unauthorized("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("User account is deactivated")
	}
	return &Session{User: user, Claims: claims}, nil
}

// Protect requires a valid bearer token for an active user.
func Protect(users store.UserStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authenticate(c, users, secret)
		if err != nil {
			abortWith(c, err)
			return
		}
		setSession(c, session)
		c.Next()
	}
}

// OptionalAuth attaches the session when a valid token is present and never
// rejects the request.
func OptionalAuth(users store.UserStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if session, err := authenticate(c, users, secret); err == nil {
				setSession(c, session)
			}
		}
		c.Next()
	}
}

// Authorize restricts the route to the given roles. It must run after Protect.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWith(c, apperr.Unauthorized(notAuthorized))
			return
		}
		if !models.OneOf(user.Role, roles) {
			abortWith(c, apperr.Forbidden(fmt.Sprintf("User role '%s' is not authorized to access this route", user.Role)))
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return Authorize(models.RoleAdmin)
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
