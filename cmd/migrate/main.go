package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/database"
	"github.com/romanbrito/onlineStorePrisma/internal/log"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.Component(log.New(cfg.Environment), "migrate")

	if *down > 0 {
		err = database.MigrateDown(cfg.Postgres.DSN, *down, logger)
	} else {
		err = database.MigrateUp(cfg.Postgres.DSN, logger)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
}
