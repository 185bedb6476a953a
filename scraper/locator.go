package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MetadataLocator finds the inline product metadata in a page and returns
// the text that starts with its JSON value. Trailing script text after the
// value is allowed.
type MetadataLocator interface {
	Locate(doc *goquery.Document) (string, bool)
}

// AssignmentLocator matches a script assignment such as `var meta = {...};`.
type AssignmentLocator struct {
	pattern *regexp.Regexp
}

// NewAssignmentLocator matches `var <name> = `, tolerating extra whitespace.
func NewAssignmentLocator(name string) *AssignmentLocator {
	return &AssignmentLocator{
		pattern: regexp.MustCompile(`\bvar\s+` + regexp.QuoteMeta(name) + `\s*=\s*`),
	}
}

// DefaultLocator is the storefront `var meta` product block.
func DefaultLocator() MetadataLocator {
	return NewAssignmentLocator("meta")
}

func (l *AssignmentLocator) Locate(doc *goquery.Document) (string, bool) {
	var found string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		loc := l.pattern.FindStringIndex(text)
		if loc == nil {
			return true
		}
		found = strings.TrimSpace(text[loc[1]:])
		return false
	})
	return found, found != ""
}
