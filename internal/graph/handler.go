package graph

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/middleware"
)

type request struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes GraphQL requests posted as JSON. Resolver errors are
// reported in the response body with status 200.
func Handler(schema *graphql.Schema, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.OperationName != "" {
			c.Set(middleware.OperationKey, req.OperationName)
		}

		ctx := withResponseWriter(c.Request.Context(), c.Writer)
		resp := schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
		if len(resp.Errors) > 0 {
			reqLog := zerolog.Ctx(c.Request.Context())
			if reqLog.GetLevel() == zerolog.Disabled {
				reqLog = &log
			}
			reqLog.Debug().
				Str("operation", req.OperationName).
				Int("errors", len(resp.Errors)).
				Str("first_error", resp.Errors[0].Message).
				Msg("graphql request returned errors")
		}

		c.JSON(http.StatusOK, resp)
	}
}
