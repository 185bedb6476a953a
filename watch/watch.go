package watch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mindsgn-studio/price-watch/internal/model"
	"github.com/mindsgn-studio/price-watch/scraper"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type PageFetcher interface {
	Fetch(url string) (*scraper.Page, error)
}

type PriceExtractor interface {
	Extract(html string, sourceURL string) (string, bool)
}

type PriceRecorder interface {
	Record(ctx context.Context, product, price, url string, now time.Time) (model.Outcome, error)
}

var ErrNoPrice = errors.New("price not found")

// ItemResult is what happened to one tracked item during a run. Outcome is
// zero when nothing was written.
type ItemResult struct {
	Item    model.TrackedItem
	Price   string
	Outcome model.Outcome
	Err     error
}

type Report struct {
	RunID   string
	Results []ItemResult
}

func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

func (r Report) Count(outcome model.Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Watcher checks tracked items one at a time.
type Watcher struct {
	fetcher   PageFetcher
	extractor PriceExtractor
	recorder  PriceRecorder
	limiter   *rate.Limiter
	now       func() time.Time
	logger    zerolog.Logger
}

type Option func(*Watcher)

// WithFetchDelay spaces consecutive fetches at least delay apart.
func WithFetchDelay(delay time.Duration) Option {
	return func(w *Watcher) {
		if delay <= 0 {
			w.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		w.limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		w.now = now
	}
}

func New(fetcher PageFetcher, extractor PriceExtractor, recorder PriceRecorder, logger zerolog.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		fetcher:   fetcher,
		extractor: extractor,
		recorder:  recorder,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes items in order. Per-item failures are logged and kept in the
// report; only cancellation of ctx stops the run early.
func (w *Watcher) Run(ctx context.Context, items []model.TrackedItem) (Report, error) {
	report := Report{
		RunID:   uuid.NewString(),
		Results: make([]ItemResult, 0, len(items)),
	}
	log := w.logger.With().Str("run_id", report.RunID).Logger()
	log.Info().Int("items", len(items)).Msg("price check started")

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := w.limiter.Wait(ctx); err != nil {
			return report, err
		}

		res := w.check(ctx, log, item)
		report.Results = append(report.Results, res)
	}

	log.Info().
		Int("stored", report.Count(model.Inserted)).
		Int("updated", report.Count(model.Updated)).
		Int("skipped", report.Count(model.Skipped)).
		Int("failed", report.Failed()).
		Msg("price check complete")
	return report, nil
}

func (w *Watcher) check(ctx context.Context, parent zerolog.Logger, item model.TrackedItem) ItemResult {
	log := parent.With().Str("product", item.Name).Str("url", item.URL).Logger()
	res := ItemResult{Item: item}

	page, err := w.fetcher.Fetch(item.URL)
	if err != nil {
		log.Error().Err(err).Msg("error fetching")
		res.Err = err
		return res
	}

	price, ok := w.extractor.Extract(string(page.Body), item.URL)
	if !ok {
		res.Err = ErrNoPrice
		return res
	}
	res.Price = price

	outcome, err := w.recorder.Record(ctx, item.Name, price, item.URL, w.now())
	if err != nil {
		log.Error().Err(err).Str("price", price).Msg("error storing price")
		res.Err = err
		return res
	}
	res.Outcome = outcome
	log.Debug().Stringer("outcome", outcome).Msg("item checked")
	return res
}
