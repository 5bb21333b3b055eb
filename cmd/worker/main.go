package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/romanbrito/onlineStorePrisma/internal/cache"
	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/log"
	"github.com/romanbrito/onlineStorePrisma/internal/mail"
	"github.com/romanbrito/onlineStorePrisma/internal/queue"
	"github.com/romanbrito/onlineStorePrisma/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.Component(log.New(cfg.Environment), "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := cache.NewRedisClient(ctx, cfg.Redis, "shop-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	processor := tasks.NewProcessor(mail.NewSMTPSender(cfg.Mail), logger)
	consumer := queue.NewConsumer(
		client,
		cfg.Queue.MailStream,
		cfg.Queue.MailGroup,
		cfg.Queue.Consumer,
		cfg.Queue.ClaimInterval,
		logger,
		processor,
	)

	logger.Info().
		Str("stream", cfg.Queue.MailStream).
		Str("group", cfg.Queue.MailGroup).
		Str("smtp", cfg.Mail.Host).
		Msg("mail worker starting")

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
	}
	logger.Info().Msg("worker exited cleanly")
}
