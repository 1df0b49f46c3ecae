package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/apperr"
	"realestate/internal/auth"
	"realestate/internal/models"
	"realestate/internal/store"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UpdateDetailsRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=50"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

const invalidCredentials = "Invalid credentials"

// respondWithTokens writes the token pair and the sanitized user.
func respondWithTokens(c *gin.Context, status int, tokens *issuedTokens, user models.User) {
	c.JSON(status, gin.H{
		"success":      true,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    tokens.ExpiresIn,
		"user":         user,
	})
}

func Register(stores store.Stores, cfg TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/register"

		var req RegisterRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		user := models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: hash,
			Role:         models.RoleUser,
			Phone:        strings.TrimSpace(req.Phone),
			Address:      strings.TrimSpace(req.Address),
			IsActive:     true,
			Favorites:    []primitive.ObjectID{},
		}
		if err := stores.Users.Create(ctx, &user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondWithError(c, route, apperr.Validation("Email already registered"))
				return
			}
			respondWithError(c, route, err)
			return
		}

		tokens, err := issueTokens(ctx, stores.Tokens, user, cfg)
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] user registered:", user.Email)
		respondWithTokens(c, http.StatusCreated, tokens, user)
	}
}

func Login(stores store.Stores, cfg TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"

		var req LoginRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := stores.Users.FindByEmail(ctx, req.Email)
		if errors.Is(err, store.ErrNotFound) || err == nil && user.PendingDeletion {
			log.Println("[AUTH] [ERROR] login unknown email")
			respondWithError(c, route, apperr.Unauthorized(invalidCredentials))
			return
		}
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			log.Println("[AUTH] [ERROR] login invalid credentials for user")
			respondWithError(c, route, apperr.Unauthorized(invalidCredentials))
			return
		}
		if !user.IsActive {
			log.Println("[AUTH] [ERROR] user inactive:", user.Email)
			respondWithError(c, route, apperr.Forbidden("Your account has been deactivated"))
			return
		}

		tokens, err := issueTokens(ctx, stores.Tokens, user, cfg)
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] user login succeeded:", user.Email)
		respondWithTokens(c, http.StatusOK, tokens, user)
	}
}

func GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, http.StatusOK, sessionUser(c))
	}
}

func UpdateDetails(stores store.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/auth/updatedetails"
		user := sessionUser(c)

		var req UpdateDetailsRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := stores.Users.Update(ctx, user.ID, store.UserUpdate{
			Name:    trimmed(req.Name),
			Email:   trimmed(req.Email),
			Phone:   trimmed(req.Phone),
			Address: trimmed(req.Address),
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondWithError(c, route, apperr.Validation("Email already registered"))
				return
			}
			respondWithError(c, route, storeError(err, "User", user.ID.Hex()))
			return
		}
		respondMessage(c, http.StatusOK, "Details updated successfully", updated)
	}
}

func UpdatePassword(stores store.Stores, cfg TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/auth/updatepassword"
		user := sessionUser(c)

		var req UpdatePasswordRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}
		if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			respondWithError(c, route, apperr.Unauthorized("Password is incorrect"))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		if err := stores.Users.SetPassword(ctx, user.ID, hash); err != nil {
			respondWithError(c, route, storeError(err, "User", user.ID.Hex()))
			return
		}

		// Existing sessions end with the old password.
		if _, err := stores.Tokens.RevokeAll(ctx, user.ID); err != nil {
			respondWithError(c, route, err)
			return
		}
		tokens, err := issueTokens(ctx, stores.Tokens, user, cfg)
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] password updated:", user.Email)
		respondWithTokens(c, http.StatusOK, tokens, user)
	}
}

// Refresh exchanges a refresh token for a new pair. The old token is
// revoked and linked to its replacement.
func Refresh(stores store.Stores, cfg TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/refresh"

		var req RefreshRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		token, err := stores.Tokens.FindByHash(ctx, auth.HashToken(strings.TrimSpace(req.RefreshToken)))
		if errors.Is(err, store.ErrNotFound) || err == nil && !token.Usable(time.Now()) {
			respondWithError(c, route, apperr.Unauthorized("Invalid refresh token"))
			return
		}
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		user, err := stores.Users.FindByID(ctx, token.UserID)
		if errors.Is(err, store.ErrNotFound) || err == nil && user.PendingDeletion {
			respondWithError(c, route, apperr.Unauthorized("User not found"))
			return
		}
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		if !user.IsActive {
			respondWithError(c, route, apperr.Forbidden("Your account has been deactivated"))
			return
		}

		tokens, err := issueTokens(ctx, stores.Tokens, user, cfg)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		if err := stores.Tokens.Rotate(ctx, token.ID, tokens.Record.ID); err != nil {
			respondWithError(c, route, err)
			return
		}
		respondWithTokens(c, http.StatusOK, tokens, user)
	}
}

// Logout revokes every refresh token of the caller.
func Logout(stores store.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/auth/logout"
		user := sessionUser(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		revoked, err := stores.Tokens.RevokeAll(ctx, user.ID)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		log.Printf("[AUTH] [INFO] logout %s revoked %d refresh tokens", user.Email, revoked)
		respondMessage(c, http.StatusOK, "Logged out successfully", gin.H{})
	}
}

// trimmed trims an optional string, keeping nil as nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
