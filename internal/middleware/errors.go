package middleware

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"realestate/internal/apperr"
)

const genericServerError = "Server Error"

// ErrorHandler is the single place errors become responses. Handlers record
// errors with c.Error and abort; the last one is written as
// {"success": false, "error": message}.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := apperr.From(c.Errors.Last().Err)
		message := err.Public()
		if err.Kind == apperr.KindInternal {
			log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			message = genericServerError
			if !production && err.Err != nil {
				message = err.Err.Error()
			}
		}
		c.JSON(err.Status(), gin.H{"success": false, "error": message})
	}
}

// Recovery turns a panic into an internal error for ErrorHandler.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[%s %s] panic recovered: %v\n%s", c.Request.Method, c.FullPath(), r, debug.Stack())
				abortWith(c, apperr.Internal(fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}

// NotFound answers unknown routes with the error envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWith(c, apperr.New(apperr.KindNotFound, "Route not found"))
	}
}
