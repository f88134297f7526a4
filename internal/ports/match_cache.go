package ports

import (
	"context"
	"storage-match-service/internal/domain"
)

// Optional store for ranked search results keyed by inventory and request.
// Results are deterministic for a given key, so entries never need invalidation
// beyond expiry.
type MatchCache interface {
	// Return cached results and whether the key was present.
	Get(ctx context.Context, key string) ([]domain.LocationResult, bool, error)
	// Store results under key.
	Put(ctx context.Context, key string, results []domain.LocationResult) error
}
