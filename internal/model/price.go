package model

import (
	"time"
)

// PriceRecord is one observed price for a product at a URL. ID is assigned by
// the store that persisted it.
type PriceRecord struct {
	ID      string    `json:"id,omitempty"`
	Product string    `json:"product"`
	Price   string    `json:"price"`
	URL     string    `json:"url"`
	Date    time.Time `json:"date"`
}

type Outcome int

const (
	Inserted Outcome = iota + 1
	Updated
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "stored"
	case Updated:
		return "updated"
	case Skipped:
		return "skipped"
	default:
		return "none"
	}
}
