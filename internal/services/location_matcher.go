package services

import (
	"cmp"
	"slices"
	"storage-match-service/internal/domain"
)

// EvaluateLocation decides whether one location can satisfy every vehicle request.
//
// Requests are processed in the order given. For each one, the cheapest
// remaining listings that fit are taken and removed from the pool, so a
// listing is never booked for two request lines. This greedy, line-by-line
// selection is not a globally optimal assignment: a different request order
// can change both price and feasibility.
//
// Infeasibility is reported through LocationMatch.Feasible; there is no error path.
func EvaluateLocation(
	locationID string,
	listings []domain.Listing,
	vehicles []domain.VehicleRequest,
) domain.LocationMatch {
	used := make([]bool, len(listings))
	chosen := []string{}
	totalPrice := 0

	for _, v := range vehicles {
		// Indices stay in input order so the stable sort breaks price ties by it.
		qualifying := make([]int, 0, len(listings))
		for i, l := range listings {
			if !used[i] && l.Fits(v.Length) {
				qualifying = append(qualifying, i)
			}
		}

		if len(qualifying) < v.Quantity {
			return domain.LocationMatch{
				LocationID:        locationID,
				Feasible:          false,
				ListingIDs:        []string{},
				TotalPriceInCents: 0,
			}
		}

		slices.SortStableFunc(qualifying, func(a, b int) int {
			return cmp.Compare(listings[a].PriceInCents, listings[b].PriceInCents)
		})

		for _, i := range qualifying[:max(v.Quantity, 0)] {
			used[i] = true
			chosen = append(chosen, listings[i].ID)
			totalPrice += listings[i].PriceInCents
		}
	}

	return domain.LocationMatch{
		LocationID:        locationID,
		Feasible:          true,
		ListingIDs:        chosen,
		TotalPriceInCents: totalPrice,
	}
}
