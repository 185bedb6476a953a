package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mindsgn-studio/price-watch/internal/model"
)

var defaultItems = []model.TrackedItem{
	{Name: "CTRL 2", URL: "https://www.bunkerkings.com/products/bunkerkings-ctrl2-loader-black"},
	{Name: "Spire V", URL: "https://virtuepb.com/products/virtue-spire-v-loader-black"},
	{Name: "Sprie V", URL: "https://www.lonewolfpaintball.com/products/virtue-spire-v?variant=41869081509941"},
}

// Default returns a copy of the built-in watch list.
func Default() []model.TrackedItem {
	items := make([]model.TrackedItem, len(defaultItems))
	copy(items, defaultItems)
	return items
}

// Load returns the items in path, or the built-in list when path is empty.
func Load(path string) ([]model.TrackedItem, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open items file: %w", err)
	}
	defer f.Close()

	items, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("items file %s: %w", path, err)
	}
	return items, nil
}

// Parse reads name,url rows. Lines starting with # are comments.
func Parse(r io.Reader) ([]model.TrackedItem, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var items []model.TrackedItem
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		name := strings.TrimSpace(record[0])
		link := strings.TrimSpace(record[1])
		if name == "" || link == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: name and url are required", line)
		}
		items = append(items, model.TrackedItem{Name: name, URL: link})
	}

	if len(items) == 0 {
		return nil, errors.New("no items found")
	}
	return items, nil
}
