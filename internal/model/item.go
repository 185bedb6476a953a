package model

import "time"

type TrackedItem struct {
	Name string
	URL  string
}

type Config struct {
	StoreURI     string
	DBName       string
	PricesColl   string
	UserAgent    string
	FetchTimeout time.Duration
	FetchDelay   time.Duration
	ItemsFile    string
	Env          string
}
