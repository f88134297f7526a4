package dto

type LocationSummaryResponse struct {
	LocationID      string `json:"location_id"`
	ListingCount    int    `json:"listing_count"`
	MinPriceInCents int    `json:"min_price_in_cents"`
}

type ListLocationsResponse struct {
	Locations []LocationSummaryResponse `json:"locations"`
}
