package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"storage-match-service/internal/domain"
	"storage-match-service/internal/platform/obs"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wire shape of a listing in seed and inventory files.
type ListingSeed struct {
	ID           string `json:"id" yaml:"id"`
	LocationID   string `json:"location_id" yaml:"location_id"`
	Length       int    `json:"length" yaml:"length"`
	Width        int    `json:"width" yaml:"width"`
	PriceInCents int    `json:"price_in_cents" yaml:"price_in_cents"`
}

// File-backed implementation of the ListingRepository port.
// The file is read on every call; callers load it once at startup.
type FileListingRepository struct {
	Path string
}

func NewFileListingRepository(path string) *FileListingRepository {
	return &FileListingRepository{Path: path}
}

// Return all listings in file order.
func (f *FileListingRepository) ListListings(ctx context.Context) (_ []domain.Listing, err error) {
	defer obs.Time(ctx, "listings.file.ListListings")(&err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadListingsFile(f.Path)
}

// ReadListingsFile loads and validates listings from a JSON or YAML file.
// The format is chosen by extension (.yaml/.yml), defaulting to JSON.
func ReadListingsFile(path string) ([]domain.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listings: read %q: %w", path, err)
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	listings, err := ParseListings(data, format)
	if err != nil {
		return nil, fmt.Errorf("read listings %q: %w", path, err)
	}
	return listings, nil
}

// ParseListings decodes a list of listings in the given format ("json" or "yaml")
// and validates every row. Duplicate ids are rejected.
func ParseListings(data []byte, format string) ([]domain.Listing, error) {
	var seeds []ListingSeed

	switch format {
	case "json":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("parse listings: empty json document")
		}
		if err := json.Unmarshal(data, &seeds); err != nil {
			return nil, fmt.Errorf("parse listings: parse json: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &seeds); err != nil {
			return nil, fmt.Errorf("parse listings: parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("parse listings: unsupported format %q", format)
	}

	return toListings(seeds)
}

func toListings(seeds []ListingSeed) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for i, s := range seeds {
		l := domain.Listing{
			ID:           strings.TrimSpace(s.ID),
			LocationID:   strings.TrimSpace(s.LocationID),
			Length:       s.Length,
			Width:        s.Width,
			PriceInCents: s.PriceInCents,
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("invalid listing at index %d: %w", i+1, err)
		}
		if _, ok := seen[l.ID]; ok {
			return nil, fmt.Errorf("invalid listing at index %d: duplicate id %q", i+1, l.ID)
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}
