package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/cache"
	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/database"
	"github.com/romanbrito/onlineStorePrisma/internal/handlers"
	"github.com/romanbrito/onlineStorePrisma/internal/jobs"
	"github.com/romanbrito/onlineStorePrisma/internal/log"
	"github.com/romanbrito/onlineStorePrisma/internal/repository"
	"github.com/romanbrito/onlineStorePrisma/internal/server"
	"github.com/romanbrito/onlineStorePrisma/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	if cfg.Postgres.AutoMigrate {
		if err := database.MigrateUp(cfg.Postgres.DSN, log.Component(logger, "migrate")); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres, "shop-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, "shop-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	if cfg.Payment.SecretKey == "" {
		logger.Warn().Msg("payment.secretkey is empty, createOrder will fail")
	}

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, objectStore, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(repository.NewUserRepository(dbPool), redisClient, cfg, log.Component(logger, "scheduler"))
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpServer.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("http server stopped with error")
	}

	shutdown(logger, scheduler, dbPool, redisClient)
}

func shutdown(logger zerolog.Logger, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	scheduler.Stop()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
