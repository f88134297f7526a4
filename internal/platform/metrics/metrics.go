package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// StorageSearches counts searches by how they were answered.
	StorageSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storage_searches_total", Help: "Storage searches by source."},
		[]string{"source"}, // computed|cache
	)
	// MatchDuration records time spent evaluating and ranking all locations.
	MatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storage_match_duration_seconds",
			Help:    "Duration of location matching and ranking.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)
	// FeasibleLocations records how many locations satisfied each search.
	FeasibleLocations = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storage_feasible_locations",
			Help:    "Number of feasible locations returned per search.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)
	// InventoryListings is the number of listings in the loaded inventory.
	InventoryListings = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "inventory_listings", Help: "Listings in the loaded inventory."},
	)
	// InventoryLocations is the number of distinct locations in the loaded inventory.
	InventoryLocations = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "inventory_locations", Help: "Distinct locations in the loaded inventory."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(StorageSearches)
		Registry.MustRegister(MatchDuration)
		Registry.MustRegister(FeasibleLocations)
		Registry.MustRegister(InventoryListings)
		Registry.MustRegister(InventoryLocations)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
