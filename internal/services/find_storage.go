package services

import (
	"context"
	"storage-match-service/internal/domain"
	"storage-match-service/internal/platform/metrics"
	"storage-match-service/internal/platform/obs"
	"storage-match-service/internal/ports"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// FindStorage evaluates every location in the index and returns the feasible
// ones ranked by total price. Identical inputs always produce identical output.
func FindStorage(
	ctx context.Context,
	index *InventoryIndex,
	vehicles []domain.VehicleRequest,
) []domain.LocationResult {
	defer obs.Time(ctx, "storage.FindStorage")(nil)

	start := time.Now()

	matches := make([]domain.LocationMatch, 0, index.Len())
	for _, loc := range index.order {
		matches = append(matches, EvaluateLocation(loc, index.groups[loc], vehicles))
	}
	ranked := RankLocations(matches)

	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	metrics.FeasibleLocations.Observe(float64(len(ranked)))

	return ranked
}

// SearchStorage answers a search from cache when possible and falls back to
// FindStorage. Cache failures are logged and never fail the search.
func SearchStorage(
	ctx context.Context,
	index *InventoryIndex,
	cache ports.MatchCache,
	vehicles []domain.VehicleRequest,
) []domain.LocationResult {
	if cache == nil {
		metrics.StorageSearches.WithLabelValues("computed").Inc()
		return FindStorage(ctx, index, vehicles)
	}

	key := MatchCacheKey(index.Fingerprint(), vehicles)

	cached, ok, err := cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("req_id", obs.RequestID(ctx)).Str("key", key).Msg("match cache read failed")
	}
	if ok {
		metrics.StorageSearches.WithLabelValues("cache").Inc()
		return cached
	}

	results := FindStorage(ctx, index, vehicles)
	metrics.StorageSearches.WithLabelValues("computed").Inc()

	if err := cache.Put(ctx, key, results); err != nil {
		log.Warn().Err(err).Str("req_id", obs.RequestID(ctx)).Str("key", key).Msg("match cache write failed")
	}

	return results
}

// MatchCacheKey builds a cache key from the inventory fingerprint and the
// request lines in order, since line order affects the result.
func MatchCacheKey(fingerprint string, vehicles []domain.VehicleRequest) string {
	var b strings.Builder
	b.WriteString("match:")
	b.WriteString(fingerprint)
	b.WriteString(":")
	for i, v := range vehicles {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.Itoa(v.Length))
		b.WriteString("x")
		b.WriteString(strconv.Itoa(v.Quantity))
	}
	return b.String()
}
