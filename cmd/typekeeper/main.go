package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/typekeeper/internal/cli"
	"github.com/dmitrijs2005/typekeeper/internal/config"
	"github.com/dmitrijs2005/typekeeper/internal/logging"
)

func main() {
	cfg := config.LoadConfig(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "typekeeper stopped", "error", err)
		os.Exit(1)
	}
}
