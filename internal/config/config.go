package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mindsgn-studio/price-watch/internal/model"
)

const (
	DefaultDBName       = "paintball"
	DefaultPricesColl   = "prices"
	DefaultUserAgent    = "Mozilla/5.0"
	DefaultFetchTimeout = 20 * time.Second
	DefaultFetchDelay   = time.Second
)

// ErrMissingStoreURI is returned before any item is processed when no
// connection string is configured.
var ErrMissingStoreURI = errors.New("MONGO_URI not set")

func LoadConfig() (model.Config, error) {
	// load .env if present but don't error if not present
	_ = godotenv.Load()

	storeURI := os.Getenv("MONGO_URI")
	if storeURI == "" {
		storeURI = os.Getenv("MONGODB_URI")
	}
	if storeURI == "" {
		return model.Config{}, ErrMissingStoreURI
	}

	db := os.Getenv("MONGO_DB_NAME")
	if db == "" {
		db = DefaultDBName
	}

	coll := os.Getenv("PRICES_COLLECTION")
	if coll == "" {
		coll = DefaultPricesColl
	}

	ua := os.Getenv("USER_AGENT")
	if ua == "" {
		ua = DefaultUserAgent
	}

	timeout, err := durationEnv("FETCH_TIMEOUT", DefaultFetchTimeout)
	if err != nil {
		return model.Config{}, err
	}

	delay, err := durationEnv("FETCH_DELAY", DefaultFetchDelay)
	if err != nil {
		return model.Config{}, err
	}

	return model.Config{
		StoreURI:     storeURI,
		DBName:       db,
		PricesColl:   coll,
		UserAgent:    ua,
		FetchTimeout: timeout,
		FetchDelay:   delay,
		ItemsFile:    os.Getenv("ITEMS_FILE"),
		Env:          os.Getenv("ENV"),
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse %s: negative duration %s", key, raw)
	}
	return d, nil
}
