package scraper

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly"
	"github.com/rs/zerolog"
)

const DefaultHTTPTimeout = 20 * time.Second

// Page is a fetched product page.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

type Fetcher struct {
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
	logger    zerolog.Logger
}

func NewFetcher(userAgent string, timeout time.Duration, logger zerolog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	return &Fetcher{
		userAgent: userAgent,
		timeout:   timeout,
		transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConnsPerHost:   2,
		},
		logger: logger,
	}
}

// Fetch downloads rawURL. Any status outside 2xx is a *FetchError.
func (f *Fetcher) Fetch(rawURL string) (*Page, error) {
	collyClient := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
	)
	collyClient.WithTransport(f.transport)
	collyClient.SetRequestTimeout(f.timeout)

	var (
		page       *Page
		statusCode int
	)

	collyClient.OnRequest(func(r *colly.Request) {
		f.logger.Debug().Str("url", r.URL.String()).Msg("visiting")
	})

	collyClient.OnResponse(func(r *colly.Response) {
		page = &Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       r.Body,
		}
	})

	collyClient.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	err := collyClient.Visit(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, StatusCode: statusCode, Err: err}
	}
	if page == nil {
		return nil, &FetchError{URL: rawURL, Err: errors.New("no response")}
	}
	if page.StatusCode < 200 || page.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, StatusCode: page.StatusCode, Err: errors.New(http.StatusText(page.StatusCode))}
	}
	return page, nil
}
