package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

// RequireIdentity rejects anonymous callers on plain HTTP routes. GraphQL
// resolvers do their own checks.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.FromContext(c.Request.Context()).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "you must be logged in to do that"})
			return
		}
		c.Next()
	}
}
