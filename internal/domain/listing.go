package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MinListingWidth is the narrowest slot, in feet, that can hold any vehicle.
// Requests never override it.
const MinListingWidth = 10

// Represents a single rentable storage slot at a physical location.
// Many listings share one LocationID. Listings are loaded once at startup
// and treated as read-only for the lifetime of the process.
type Listing struct {
	ID           string
	LocationID   string
	Length       int
	Width        int
	PriceInCents int
}

// Fits reports whether a vehicle of the given length can be stored in the listing.
func (l Listing) Fits(length int) bool {
	return l.Length >= length && l.Width >= MinListingWidth
}

// Validate checks the listing before it enters the inventory.
func (l Listing) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("listing: id must not be empty")
	}
	if strings.TrimSpace(l.LocationID) == "" {
		return fmt.Errorf("listing %q: location_id must not be empty", l.ID)
	}
	if l.Length <= 0 {
		return fmt.Errorf("listing %q: length must be positive, got %d", l.ID, l.Length)
	}
	if l.Width <= 0 {
		return fmt.Errorf("listing %q: width must be positive, got %d", l.ID, l.Width)
	}
	if l.PriceInCents < 0 {
		return fmt.Errorf("listing %q: price_in_cents must not be negative, got %d", l.ID, l.PriceInCents)
	}
	return nil
}
