package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_StorageSearches(t *testing.T) {
	tests := []struct {
		name   string
		source string
		incN   int
	}{
		{name: "computed", source: "computed", incN: 1},
		{name: "cache", source: "cache", incN: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(StorageSearches.WithLabelValues(tt.source))
			for i := 0; i < tt.incN; i++ {
				StorageSearches.WithLabelValues(tt.source).Inc()
			}
			after := testutil.ToFloat64(StorageSearches.WithLabelValues(tt.source))
			assert.Equal(t, float64(tt.incN), after-before)
		})
	}
}

func TestMetrics_Histograms(t *testing.T) {
	MatchDuration.Observe(0.002)
	FeasibleLocations.Observe(3)

	assert.Greater(t, testutil.CollectAndCount(MatchDuration), 0)
	assert.Greater(t, testutil.CollectAndCount(FeasibleLocations), 0)
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RegisterDefault()
	RegisterDefault()

	InventoryListings.Set(7)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "inventory_listings 7"))
}
