package domain

// Outcome of evaluating one location against a full vehicle request.
// An infeasible match carries no listings and a zero price; it is a normal
// result, not an error.
type LocationMatch struct {
	LocationID        string
	Feasible          bool
	ListingIDs        []string
	TotalPriceInCents int
}

// Represents a location able to satisfy the entire request on its own.
// ListingIDs are ordered by request line, then by ascending price within a line.
type LocationResult struct {
	LocationID        string
	ListingIDs        []string
	TotalPriceInCents int
}

// Result converts a feasible match into its ranked-output form.
func (m LocationMatch) Result() LocationResult {
	return LocationResult{
		LocationID:        m.LocationID,
		ListingIDs:        m.ListingIDs,
		TotalPriceInCents: m.TotalPriceInCents,
	}
}
