package recorder

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mindsgn-studio/price-watch/internal/model"
)

// MemoryStore is an in-process Store. It is meant for tests only; nothing
// is persisted.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int
	records []model.PriceRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) FindLatest(_ context.Context, product, url string, from, to time.Time) (*model.PriceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *model.PriceRecord
	for i := range m.records {
		rec := m.records[i]
		if rec.Product != product || rec.URL != url {
			continue
		}
		if rec.Date.Before(from) || !rec.Date.Before(to) {
			continue
		}
		if latest == nil || rec.Date.After(latest.Date) {
			latest = &rec
		}
	}
	return latest, nil
}

func (m *MemoryStore) Insert(_ context.Context, rec *model.PriceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	rec.ID = strconv.Itoa(m.nextID)
	m.records = append(m.records, *rec)
	return nil
}

func (m *MemoryStore) UpdatePrice(_ context.Context, id, price string, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Price = price
			m.records[i].Date = date
			return nil
		}
	}
	return fmt.Errorf("price %s not found", id)
}

func (m *MemoryStore) Close(context.Context) error {
	return nil
}

// Records returns a snapshot in insertion order.
func (m *MemoryStore) Records() []model.PriceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.PriceRecord, len(m.records))
	copy(out, m.records)
	return out
}
