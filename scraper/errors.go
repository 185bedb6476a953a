package scraper

import (
	"fmt"
	"net/http"
)

// FetchError reports a transport failure, a timeout or a non-success status.
// StatusCode is zero when no response arrived.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError describes why embedded product metadata could not be used.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse product metadata: %s: %v", e.Reason, e.Err)
	}
	return "parse product metadata: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
