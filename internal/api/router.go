package api

import (
	"net/http"
	"storage-match-service/internal/api/handlers"
	"storage-match-service/internal/platform/metrics"
	"storage-match-service/internal/ports"
	"storage-match-service/internal/services"

	"golang.org/x/time/rate"
)

// Options tunes boundary policy for the router.
type Options struct {
	MaxTotalQuantity int
	// RateLimitRPS of 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// cache may be nil.
func NewRouter(index *services.InventoryIndex, cache ports.MatchCache, opts Options) http.Handler {
	mux := http.NewServeMux()

	storageHandler := &handlers.StorageHandler{
		Index:            index,
		Cache:            cache,
		MaxTotalQuantity: opts.MaxTotalQuantity,
	}
	locationHandler := &handlers.LocationHandler{Index: index}
	readyHandler := &handlers.ReadyHandler{Index: index, Cache: cache}

	mux.HandleFunc("/{$}", storageHandler.Search)
	mux.HandleFunc("/storage/search", storageHandler.Search)
	mux.HandleFunc("/locations", locationHandler.List)
	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/readyz", readyHandler.Ready)
	mux.Handle("/metrics", metrics.Handler())

	var h http.Handler = mux
	if opts.RateLimitRPS > 0 {
		h = rateLimitMiddleware(rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst), h)
	}

	return requestIDMiddleware(loggingMiddleware(h))
}
