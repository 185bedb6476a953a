package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mindsgn-studio/price-watch/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	product = "CTRL 2"
	link    = "https://www.bunkerkings.com/products/bunkerkings-ctrl2-loader-black"
)

func newTestRecorder() (*Recorder, *MemoryStore) {
	store := NewMemoryStore()
	return New(store, zerolog.Nop()), store
}

func TestRecord_InsertThenSkip(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRecorder()
	morning := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)

	outcome, err := r.Record(ctx, product, "25.99", link, morning)
	require.NoError(t, err)
	assert.Equal(t, model.Inserted, outcome)

	outcome, err = r.Record(ctx, product, "25.99", link, morning.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.Skipped, outcome)

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "25.99", records[0].Price)
	assert.Equal(t, morning, records[0].Date)
}

func TestRecord_UpdateSameDay(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRecorder()
	morning := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	evening := morning.Add(12 * time.Hour)

	_, err := r.Record(ctx, product, "25.99", link, morning)
	require.NoError(t, err)
	firstID := store.Records()[0].ID

	outcome, err := r.Record(ctx, product, "19.99", link, evening)
	require.NoError(t, err)
	assert.Equal(t, model.Updated, outcome)

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, firstID, records[0].ID)
	assert.Equal(t, "19.99", records[0].Price)
	assert.Equal(t, evening, records[0].Date)
}

func TestRecord_DayBoundary(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRecorder()
	beforeMidnight := time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC)
	afterMidnight := beforeMidnight.Add(2 * time.Second)

	outcome, err := r.Record(ctx, product, "25.99", link, beforeMidnight)
	require.NoError(t, err)
	assert.Equal(t, model.Inserted, outcome)

	outcome, err = r.Record(ctx, product, "25.99", link, afterMidnight)
	require.NoError(t, err)
	assert.Equal(t, model.Inserted, outcome)

	assert.Len(t, store.Records(), 2)
}

func TestRecord_DayIsUTC(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRecorder()
	zone := time.FixedZone("UTC-5", -5*60*60)

	// 21:00 and 23:00 local are 02:00 and 04:00 UTC the next day
	_, err := r.Record(ctx, product, "25.99", link, time.Date(2024, 3, 9, 21, 0, 0, 0, zone))
	require.NoError(t, err)
	outcome, err := r.Record(ctx, product, "25.99", link, time.Date(2024, 3, 9, 23, 0, 0, 0, zone))
	require.NoError(t, err)

	assert.Equal(t, model.Skipped, outcome)
	require.Len(t, store.Records(), 1)
	assert.Equal(t, time.UTC, store.Records()[0].Date.Location())
}

func TestRecord_KeyedByProductAndURL(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRecorder()
	now := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)

	_, err := r.Record(ctx, "Spire V", "189.95", "https://virtuepb.com/products/spire", now)
	require.NoError(t, err)
	outcome, err := r.Record(ctx, "Spire V", "189.95", "https://www.lonewolfpaintball.com/products/spire", now)
	require.NoError(t, err)
	assert.Equal(t, model.Inserted, outcome)

	outcome, err = r.Record(ctx, "Sprie V", "189.95", "https://virtuepb.com/products/spire", now)
	require.NoError(t, err)
	assert.Equal(t, model.Inserted, outcome)

	assert.Len(t, store.Records(), 3)
}

func TestRecord_PicksLatestDuplicate(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRecorder()
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, &model.PriceRecord{Product: product, URL: link, Price: "20.00", Date: day.Add(time.Hour)}))
	require.NoError(t, store.Insert(ctx, &model.PriceRecord{Product: product, URL: link, Price: "21.00", Date: day.Add(2 * time.Hour)}))

	outcome, err := r.Record(ctx, product, "21.00", link, day.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.Skipped, outcome)
}

func TestRecord_EmptyPrice(t *testing.T) {
	r, store := newTestRecorder()

	_, err := r.Record(context.Background(), product, "", link, time.Now())
	assert.ErrorIs(t, err, ErrEmptyPrice)
	assert.Empty(t, store.Records())
}

type failingStore struct {
	MemoryStore
	findErr   error
	insertErr error
}

func (f *failingStore) FindLatest(ctx context.Context, product, url string, from, to time.Time) (*model.PriceRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.MemoryStore.FindLatest(ctx, product, url, from, to)
}

func (f *failingStore) Insert(ctx context.Context, rec *model.PriceRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.MemoryStore.Insert(ctx, rec)
}

func TestRecord_StoreErrors(t *testing.T) {
	boom := errors.New("connection reset")

	r := New(&failingStore{findErr: boom}, zerolog.Nop())
	_, err := r.Record(context.Background(), product, "1.00", link, time.Now())
	assert.ErrorIs(t, err, boom)

	r = New(&failingStore{insertErr: boom}, zerolog.Nop())
	_, err = r.Record(context.Background(), product, "1.00", link, time.Now())
	assert.ErrorIs(t, err, boom)
}

func TestDayWindow(t *testing.T) {
	from, to := DayWindow(time.Date(2024, 12, 31, 18, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestMemoryStore_UpdateUnknownID(t *testing.T) {
	store := NewMemoryStore()

	err := store.UpdatePrice(context.Background(), "42", "1.00", time.Now())
	assert.Error(t, err)
	assert.Empty(t, store.Records())
}
