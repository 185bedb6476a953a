package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mindsgn-studio/price-watch/internal/config"
	"github.com/mindsgn-studio/price-watch/internal/logger"
	"github.com/mindsgn-studio/price-watch/watch"
)

func main() {
	cfg, err := config.LoadConfig()
	log := logger.New(logger.IsDev(cfg.Env))
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resp, err := watch.Handle(ctx, cfg, log)
	if errors.Is(err, context.Canceled) {
		log.Warn().Msg("price check interrupted")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("run error")
		stop()
		os.Exit(1)
	}
	log.Info().Int("status", resp.StatusCode).Msg(resp.Body)
}
