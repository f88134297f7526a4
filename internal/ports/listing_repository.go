package ports

import (
	"context"
	"storage-match-service/internal/domain"
)

// Port: a boundary for retrieving the storage inventory from a data source.
type ListingRepository interface {
	// Retrieve every listing, in a stable source order.
	ListListings(ctx context.Context) ([]domain.Listing, error)
}
