package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/security"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

// Session resolves the caller from the session cookie. A missing or invalid
// cookie leaves the request anonymous; the request is never rejected here.
func Session(cfg *config.AppConfig, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := security.ParseSessionToken(token, cfg.Security.AppSecret)
		if err != nil {
			log.Debug().Err(err).Str("client_ip", c.ClientIP()).Msg("ignoring session cookie")
			c.Next()
			return
		}

		id := session.Identity{UserID: claims.UserID}
		c.Request = c.Request.WithContext(session.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
