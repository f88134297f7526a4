package services

import (
	"cmp"
	"slices"
	"storage-match-service/internal/domain"
)

// RankLocations keeps feasible matches and orders them by ascending total price.
// Equal totals keep their input order.
func RankLocations(matches []domain.LocationMatch) []domain.LocationResult {
	out := make([]domain.LocationResult, 0, len(matches))
	for _, m := range matches {
		if m.Feasible {
			out = append(out, m.Result())
		}
	}

	slices.SortStableFunc(out, func(a, b domain.LocationResult) int {
		return cmp.Compare(a.TotalPriceInCents, b.TotalPriceInCents)
	})

	return out
}
