package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/graph"
	"github.com/romanbrito/onlineStorePrisma/internal/mail"
	"github.com/romanbrito/onlineStorePrisma/internal/middleware"
	"github.com/romanbrito/onlineStorePrisma/internal/payment"
	"github.com/romanbrito/onlineStorePrisma/internal/repository"
	"github.com/romanbrito/onlineStorePrisma/internal/service"
	"github.com/romanbrito/onlineStorePrisma/internal/storage"
)

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

type HandlerSet struct {
	log    zerolog.Logger
	cfg    *config.AppConfig
	db     Pinger
	cache  Pinger
	images *service.ImageService
	schema *graphql.Schema
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	outbox := mail.NewOutbox(cache, cfg.Queue.MailStream, cfg.Queue.MaxLen)
	gateway := payment.NewStripeGateway(cfg.Payment, log)

	svc := graph.Services{
		Auth:   service.NewAuthService(userRepo, outbox, cfg, log),
		Users:  service.NewUserService(userRepo, log),
		Items:  service.NewItemService(itemRepo, userRepo, log),
		Carts:  service.NewCartService(cartRepo, itemRepo, log),
		Orders: service.NewOrderService(orderRepo, cartRepo, userRepo, gateway, cfg, log),
	}

	return HandlerSet{
		log:    log,
		cfg:    cfg,
		db:     db,
		cache:  redisPinger{client: cache},
		images: service.NewImageService(store, cfg.Storage.MaxBytes, log),
		schema: graph.NewSchema(graph.NewResolver(svc, cfg, log)),
	}
}

// Register mounts the routes. The GraphQL endpoint sits at the root so the
// storefront can keep posting to /graphql; everything else lives under /api.
func (h HandlerSet) Register(router *gin.Engine) {
	router.Use(middleware.Session(h.cfg, h.log))

	router.POST("/graphql", graph.Handler(h.schema, h.log))

	api := router.Group("/api")
	api.GET("/healthz", h.Health)

	v1 := api.Group("/v1")
	uploads := v1.Group("/uploads")
	uploads.Use(middleware.RequireIdentity())
	uploads.POST("", h.UploadItemImage)
}
