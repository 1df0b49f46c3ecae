package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports whether the API and its database are reachable.
func Health(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/health"

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := ensureDBConnection(ctx, d.Stores.Health); err != nil {
			respondWithError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok", "database": "up"})
	}
}

// Home answers the API root.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Real Estate API is running"})
	}
}
