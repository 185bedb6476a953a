package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mindsgn-studio/price-watch/internal/model"
	"github.com/mindsgn-studio/price-watch/recorder"
)

const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultDBOpTimeout    = 10 * time.Second
)

// Store is a recorder.Store that owns a connection.
type Store interface {
	recorder.Store
	Close(ctx context.Context) error
}

// Open connects to the store named by cfg.StoreURI. postgres:// and
// postgresql:// URIs use PostgreSQL, anything else MongoDB.
func Open(ctx context.Context, cfg model.Config) (Store, error) {
	uri := cfg.StoreURI
	if uri == "" {
		return nil, fmt.Errorf("open store: empty connection string")
	}

	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return NewPostgresStore(ctx, uri, cfg.PricesColl)
	default:
		return NewMongoStore(ctx, uri, cfg.DBName, cfg.PricesColl)
	}
}
