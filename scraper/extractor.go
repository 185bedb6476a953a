package scraper

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// snippetLength bounds the page excerpt logged when no price is found.
const snippetLength = 200

var priceMetaSelectors = []string{
	`meta[property="og:price:amount"]`,
	`meta[property="product:price:amount"]`,
}

var (
	errNoMetadata       = errors.New("no product metadata block")
	errNoVariantParam   = errors.New("no variant in url")
	errVariantNotListed = errors.New("variant not listed in product metadata")
)

type productMetadata struct {
	Product *struct {
		Variants []productVariant `json:"variants"`
	} `json:"product"`
}

type productVariant struct {
	ID    json.RawMessage `json:"id"`
	Price *json.Number    `json:"price"`
}

type Extractor struct {
	locator MetadataLocator
	logger  zerolog.Logger
}

type ExtractorOption func(*Extractor)

// WithLocator replaces the default `var meta` matcher.
func WithLocator(l MetadataLocator) ExtractorOption {
	return func(e *Extractor) {
		e.locator = l
	}
}

func NewExtractor(logger zerolog.Logger, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		locator: DefaultLocator(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the current price on a product page. The variant selected
// by sourceURL wins over the page-level meta price. Failures are logged and
// reported as ok == false.
func (e *Extractor) Extract(html string, sourceURL string) (price string, ok bool) {
	log := e.logger.With().Str("url", sourceURL).Logger()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Warn().Err(err).Msg("parse html")
		return "", false
	}

	price, err = e.variantPrice(doc, sourceURL)
	if err == nil {
		return price, true
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		log.Warn().Err(err).Msg("error parsing variant data")
	} else {
		log.Debug().Err(err).Msg("variant price unavailable")
	}

	if price, ok := metaPrice(doc); ok {
		return price, true
	}

	log.Info().Str("snippet", snippet(doc)).Msg("price not found")
	return "", false
}

func (e *Extractor) variantPrice(doc *goquery.Document, sourceURL string) (string, error) {
	text, found := e.locator.Locate(doc)
	if !found {
		return "", errNoMetadata
	}

	wanted := VariantID(sourceURL)
	if wanted == "" {
		return "", errNoVariantParam
	}

	var meta productMetadata
	if err := json.NewDecoder(strings.NewReader(text)).Decode(&meta); err != nil {
		return "", &ParseError{Reason: "decode json", Err: err}
	}
	if meta.Product == nil {
		return "", &ParseError{Reason: "missing product"}
	}

	for _, v := range meta.Product.Variants {
		id, err := variantKey(v.ID)
		if err != nil {
			return "", &ParseError{Reason: "variant id", Err: err}
		}
		if id != wanted {
			continue
		}
		if v.Price == nil {
			return "", &ParseError{Reason: "variant " + id + " has no price"}
		}
		price, err := MinorToMajor(v.Price.String())
		if err != nil {
			return "", &ParseError{Reason: "variant " + id + " price", Err: err}
		}
		return price, nil
	}

	return "", errVariantNotListed
}

// VariantID returns the last `variant` query parameter of rawURL, or "".
func VariantID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	values := u.Query()["variant"]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[len(values)-1])
}

// variantKey renders an id as text so 123 and "123" compare equal.
func variantKey(raw json.RawMessage) (string, error) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(raw), nil
}

// MinorToMajor converts an amount in minor units (cents) to a decimal string
// in major units with at least two fraction digits. Whole amounts render as
// "25.00", not "25.0", so history written by older scrapers that used the
// one-digit form will not compare equal on the same day.
func MinorToMajor(minor string) (string, error) {
	d, err := decimal.NewFromString(minor)
	if err != nil {
		return "", err
	}
	major := d.Shift(-2)
	if major.Exponent() >= -2 {
		return major.StringFixed(2), nil
	}
	return major.String(), nil
}

func metaPrice(doc *goquery.Document) (string, bool) {
	for _, selector := range priceMetaSelectors {
		content, exists := doc.Find(selector).First().Attr("content")
		if !exists {
			continue
		}
		if price := strings.TrimSpace(content); price != "" {
			return price, true
		}
	}
	return "", false
}

func snippet(doc *goquery.Document) string {
	html, err := doc.Html()
	if err != nil {
		return ""
	}
	normalized := []rune(strings.Join(strings.Fields(html), " "))
	if len(normalized) > snippetLength {
		normalized = normalized[:snippetLength]
	}
	return string(normalized)
}
