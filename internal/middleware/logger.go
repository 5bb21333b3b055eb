package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

// OperationKey is the gin context key under which the GraphQL handler records
// the operation name for the access log.
const OperationKey = "graphql_operation"

func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		reqLog := requestLogger(c, log)

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = reqLog.Error()
		case status >= 400:
			event = reqLog.Warn()
		default:
			event = reqLog.Info()
		}

		if id := session.FromContext(c.Request.Context()); id.Authenticated() {
			event = event.Str("user_id", id.UserID)
		}
		if op := c.GetString(OperationKey); op != "" {
			event = event.Str("operation", op)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
