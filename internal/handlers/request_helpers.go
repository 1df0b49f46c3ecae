package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/apperr"
	"realestate/internal/middleware"
	"realestate/internal/models"
	"realestate/internal/store"
)

const requestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func ensureDBConnection(ctx context.Context, health store.Pinger) error {
	if health == nil {
		return nil
	}
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := health.Ping(checkCtx); err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

// respondWithError records err for the error boundary and stops the chain.
func respondWithError(c *gin.Context, route string, err error) {
	appErr := apperr.From(err)
	log.Printf("[%s] returning error %d: %v", route, appErr.Status(), err)
	_ = c.Error(appErr)
	c.Abort()
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// parseObjectID treats a malformed id like an unknown one.
func parseObjectID(raw, resource string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(resource, raw)
	}
	return id, nil
}

// storeError maps store sentinels onto the client-facing error kinds.
func storeError(err error, resource, id string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(resource, id)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Validation("Duplicate field value entered")
	default:
		return err
	}
}

// sessionUser returns the caller set by middleware.Protect.
func sessionUser(c *gin.Context) models.User {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		panic("handlers: route requires middleware.Protect")
	}
	return user
}
