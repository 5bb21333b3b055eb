package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery turns a panic into a 500. GraphQL clients get the error in the
// shape they already parse.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			reqLog := requestLogger(c, log)
			reqLog.Error().
				Interface("panic", r).
				Str("path", c.Request.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Request.URL.Path == "/graphql" {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"errors": []gin.H{{"message": "internal server error"}},
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal_server_error",
			})
		}()
		c.Next()
	}
}

// requestLogger prefers the logger RequestID stored in the request context.
func requestLogger(c *gin.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(c.Request.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
