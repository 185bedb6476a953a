package watch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mindsgn-studio/price-watch/catalog"
	"github.com/mindsgn-studio/price-watch/database"
	"github.com/mindsgn-studio/price-watch/internal/model"
	"github.com/mindsgn-studio/price-watch/recorder"
	"github.com/mindsgn-studio/price-watch/scraper"
	"github.com/rs/zerolog"
)

const CompletionMessage = "Price check complete"

// Response is returned to the invoker once a run finishes.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type StoreOpener func(ctx context.Context, cfg model.Config) (database.Store, error)

// Handle runs one price check against the configured store.
func Handle(ctx context.Context, cfg model.Config, logger zerolog.Logger) (Response, error) {
	return HandleWith(ctx, cfg, logger, database.Open)
}

// HandleWith is Handle with a custom store. The store is closed before it
// returns.
func HandleWith(ctx context.Context, cfg model.Config, logger zerolog.Logger, open StoreOpener) (Response, error) {
	items, err := catalog.Load(cfg.ItemsFile)
	if err != nil {
		return Response{}, fmt.Errorf("load items: %w", err)
	}

	store, err := open(ctx, cfg)
	if err != nil {
		return Response{}, fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("error closing store")
		}
	}()

	w := New(
		scraper.NewFetcher(cfg.UserAgent, cfg.FetchTimeout, logger),
		scraper.NewExtractor(logger),
		recorder.New(store, logger),
		logger,
		WithFetchDelay(cfg.FetchDelay),
	)

	if _, err := w.Run(ctx, items); err != nil {
		return Response{}, err
	}
	return Response{StatusCode: http.StatusOK, Body: CompletionMessage}, nil
}
