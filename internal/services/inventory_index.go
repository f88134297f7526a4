package services

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"strconv"
	"storage-match-service/internal/domain"
)

// InventoryIndex groups listings by location once, ahead of matching.
//
// The index is immutable after construction and safe for concurrent reads,
// so a single instance is shared by every request for the process lifetime.
type InventoryIndex struct {
	order       []string
	groups      map[string][]domain.Listing
	listings    int
	fingerprint string
}

// NewInventoryIndex groups listings by LocationID in a single pass.
// Relative input order is preserved within each group, and locations are
// remembered in the order they were first seen; ranking ties rely on both.
func NewInventoryIndex(listings []domain.Listing) *InventoryIndex {
	idx := &InventoryIndex{
		order:    make([]string, 0),
		groups:   make(map[string][]domain.Listing),
		listings: len(listings),
	}

	h := sha256.New()
	for _, l := range listings {
		if _, ok := idx.groups[l.LocationID]; !ok {
			idx.order = append(idx.order, l.LocationID)
		}
		idx.groups[l.LocationID] = append(idx.groups[l.LocationID], l)

		writeField(h, l.ID)
		writeField(h, l.LocationID)
		writeField(h, strconv.Itoa(l.Length))
		writeField(h, strconv.Itoa(l.Width))
		writeField(h, strconv.Itoa(l.PriceInCents))
	}
	idx.fingerprint = hex.EncodeToString(h.Sum(nil))

	return idx
}

// writeField length-prefixes s so no choice of field contents can make two
// different inventories hash the same bytes.
func writeField(w io.Writer, s string) {
	var n [binary.MaxVarintLen64]byte
	_, _ = w.Write(n[:binary.PutUvarint(n[:], uint64(len(s)))])
	_, _ = io.WriteString(w, s)
}

// Locations returns location ids in first-seen order.
func (idx *InventoryIndex) Locations() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Listings returns the listings at a location in input order.
// The returned slice is shared with the index and must not be modified.
func (idx *InventoryIndex) Listings(locationID string) []domain.Listing {
	return idx.groups[locationID]
}

// Len is the number of distinct locations.
func (idx *InventoryIndex) Len() int { return len(idx.order) }

// ListingCount is the number of listings across all locations.
func (idx *InventoryIndex) ListingCount() int { return idx.listings }

// Fingerprint identifies the inventory contents; equal inventories share it.
func (idx *InventoryIndex) Fingerprint() string { return idx.fingerprint }
