package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindsgn-studio/price-watch/internal/model"
	"github.com/rs/zerolog"
)

var ErrEmptyPrice = errors.New("empty price")

// Store is the persistence the recorder needs. FindLatest returns nil, nil
// when no record in [from, to) matches.
type Store interface {
	FindLatest(ctx context.Context, product, url string, from, to time.Time) (*model.PriceRecord, error)
	Insert(ctx context.Context, rec *model.PriceRecord) error
	UpdatePrice(ctx context.Context, id, price string, date time.Time) error
}

// Recorder keeps at most one record per product, url and UTC day. The
// lookup and the write are separate calls, so two runs racing on the same
// store can both insert.
type Recorder struct {
	store  Store
	logger zerolog.Logger
}

func New(store Store, logger zerolog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// DayWindow returns the UTC calendar day containing now.
func DayWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func (r *Recorder) Record(ctx context.Context, product, price, url string, now time.Time) (model.Outcome, error) {
	if price == "" {
		return 0, ErrEmptyPrice
	}

	now = now.UTC()
	from, to := DayWindow(now)
	log := r.logger.With().Str("product", product).Str("url", url).Str("price", price).Logger()

	existing, err := r.store.FindLatest(ctx, product, url, from, to)
	if err != nil {
		return 0, fmt.Errorf("find today's price: %w", err)
	}

	if existing == nil {
		rec := &model.PriceRecord{
			Product: product,
			Price:   price,
			URL:     url,
			Date:    now,
		}
		if err := r.store.Insert(ctx, rec); err != nil {
			return 0, fmt.Errorf("insert price: %w", err)
		}
		log.Info().Msg("stored")
		return model.Inserted, nil
	}

	if existing.Price == price {
		log.Info().Msg("price remains the same, skipping update")
		return model.Skipped, nil
	}

	if err := r.store.UpdatePrice(ctx, existing.ID, price, now); err != nil {
		return 0, fmt.Errorf("update price: %w", err)
	}
	log.Info().Str("previous", existing.Price).Msg("updated")
	return model.Updated, nil
}
