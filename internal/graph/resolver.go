// Package graph serves the storefront GraphQL API on top of the services.
package graph

import (
	"context"
	_ "embed"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/service"
)

//go:embed schema.graphql
var schemaSDL string

// Services are the operations the resolvers delegate to.
type Services struct {
	Auth   *service.AuthService
	Users  *service.UserService
	Items  *service.ItemService
	Carts  *service.CartService
	Orders *service.OrderService
}

// Resolver is the root resolver for queries and mutations.
type Resolver struct {
	svc Services
	cfg *config.AppConfig
	log zerolog.Logger
}

func NewResolver(svc Services, cfg *config.AppConfig, log zerolog.Logger) *Resolver {
	return &Resolver{svc: svc, cfg: cfg, log: log}
}

const maxQueryDepth = 12

// NewSchema parses the embedded schema against r. It panics if a field has
// no matching resolver method.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, r,
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(panicLogger{log: r.log}),
	)
}

type panicLogger struct {
	log zerolog.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.log.Error().Interface("panic", value).Msg("graphql resolver panic")
}
