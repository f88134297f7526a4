package dto

// One requested vehicle line. Pointers distinguish missing fields from zero.
type VehicleRequest struct {
	Length   *int `json:"length"`
	Quantity *int `json:"quantity"`
}

type LocationResponse struct {
	LocationID        string   `json:"location_id"`
	ListingIDs        []string `json:"listing_ids"`
	TotalPriceInCents int      `json:"total_price_in_cents"`
}
