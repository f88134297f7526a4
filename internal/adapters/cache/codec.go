package cache

import (
	"encoding/json"
	"storage-match-service/internal/domain"
)

// Stored form of a ranked search result. Shared by every backend so entries
// written by one can be read by another.
type cachedResult struct {
	LocationID        string   `json:"location_id"`
	ListingIDs        []string `json:"listing_ids"`
	TotalPriceInCents int      `json:"total_price_in_cents"`
}

func encodeResults(results []domain.LocationResult) ([]byte, error) {
	encoded := make([]cachedResult, 0, len(results))
	for _, r := range results {
		encoded = append(encoded, cachedResult{
			LocationID:        r.LocationID,
			ListingIDs:        r.ListingIDs,
			TotalPriceInCents: r.TotalPriceInCents,
		})
	}
	return json.Marshal(encoded)
}

func decodeResults(raw []byte) ([]domain.LocationResult, error) {
	var decoded []cachedResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}

	out := make([]domain.LocationResult, 0, len(decoded))
	for _, r := range decoded {
		ids := r.ListingIDs
		if ids == nil {
			ids = []string{}
		}
		out = append(out, domain.LocationResult{
			LocationID:        r.LocationID,
			ListingIDs:        ids,
			TotalPriceInCents: r.TotalPriceInCents,
		})
	}
	return out, nil
}
