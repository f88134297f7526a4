package handlers

import (
	"net/http"
	"storage-match-service/internal/api/dto"
	"storage-match-service/internal/services"
)

// LocationHandler exposes a read-only summary of the loaded inventory.
type LocationHandler struct {
	Index *services.InventoryIndex
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	locs := h.Index.Locations()
	res := dto.ListLocationsResponse{
		Locations: make([]dto.LocationSummaryResponse, 0, len(locs)),
	}
	for _, loc := range locs {
		listings := h.Index.Listings(loc)
		minPrice := 0
		for i, l := range listings {
			if i == 0 || l.PriceInCents < minPrice {
				minPrice = l.PriceInCents
			}
		}
		res.Locations = append(res.Locations, dto.LocationSummaryResponse{
			LocationID:      loc,
			ListingCount:    len(listings),
			MinPriceInCents: minPrice,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
