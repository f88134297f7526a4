package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"storage-match-service/internal/api/dto"
	"storage-match-service/internal/domain"
	"storage-match-service/internal/ports"
	"storage-match-service/internal/services"
)

const maxBodyBytes = 1 << 20

// StorageHandler answers storage searches against the shared inventory index.
type StorageHandler struct {
	Index            *services.InventoryIndex
	Cache            ports.MatchCache
	MaxTotalQuantity int
}

// Search decodes a JSON array of vehicle requests, enforces the total
// quantity cap, and returns every location that can store all vehicles,
// cheapest first.
func (h *StorageHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req []dto.VehicleRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON value")
		return
	}
	if req == nil {
		writeError(w, r, http.StatusBadRequest, "body must be a JSON array of vehicles")
		return
	}

	vehicles, err := h.validate(req)
	if err != nil {
		var capErr quantityCapError
		if errors.As(err, &capErr) {
			// Existing clients read the cap message from "detail".
			writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": capErr.Error(), "detail": capErr.Error()})
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	results := services.SearchStorage(r.Context(), h.Index, h.Cache, vehicles)

	res := make([]dto.LocationResponse, 0, len(results))
	for _, loc := range results {
		ids := loc.ListingIDs
		if ids == nil {
			ids = []string{}
		}
		res = append(res, dto.LocationResponse{
			LocationID:        loc.LocationID,
			ListingIDs:        ids,
			TotalPriceInCents: loc.TotalPriceInCents,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

type quantityCapError struct {
	max int
}

func (e quantityCapError) Error() string {
	return fmt.Sprintf("Total quantity of vehicles cannot exceed %d", e.max)
}

// validate converts request lines to domain values. The quantity cap is a
// boundary policy; the matcher itself works for any quantity.
func (h *StorageHandler) validate(req []dto.VehicleRequest) ([]domain.VehicleRequest, error) {
	vehicles := make([]domain.VehicleRequest, 0, len(req))
	total := 0
	for i, v := range req {
		if v.Length == nil {
			return nil, fmt.Errorf("vehicles[%d].length is required", i)
		}
		if v.Quantity == nil {
			return nil, fmt.Errorf("vehicles[%d].quantity is required", i)
		}
		if *v.Length <= 0 {
			return nil, fmt.Errorf("vehicles[%d].length must be a positive integer", i)
		}
		if *v.Quantity < 0 {
			return nil, fmt.Errorf("vehicles[%d].quantity must not be negative", i)
		}

		if *v.Quantity > h.MaxTotalQuantity-total {
			return nil, quantityCapError{max: h.MaxTotalQuantity}
		}
		total += *v.Quantity

		vehicles = append(vehicles, domain.VehicleRequest{Length: *v.Length, Quantity: *v.Quantity})
	}
	return vehicles, nil
}
