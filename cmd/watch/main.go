package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/mindsgn-studio/price-watch/internal/config"
	"github.com/mindsgn-studio/price-watch/internal/logger"
	"github.com/mindsgn-studio/price-watch/watch"
)

func main() {
	interval := flag.Duration("interval", 6*time.Hour, "time between price checks")
	flag.Parse()

	cfg, err := config.LoadConfig()
	log := logger.New(logger.IsDev(cfg.Env))
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *interval < time.Minute {
		log.Fatal().Dur("interval", *interval).Msg("interval must be at least one minute")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err = s.Every(*interval).Do(func() {
		if _, err := watch.Handle(ctx, cfg, log); err != nil {
			log.Error().Err(err).Msg("price check failed")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("schedule price check")
	}

	s.StartAsync()
	log.Info().Dur("interval", *interval).Msg("scheduler started")

	<-ctx.Done()
	s.Stop()
	log.Info().Msg("scheduler stopped")
}
