package services

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"storage-match-service/internal/domain"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	entries map[string][]domain.LocationResult
	gets    int
	puts    int
	getErr  error
	putErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]domain.LocationResult{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]domain.LocationResult, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	r, ok := c.entries[key]
	return r, ok, nil
}

func (c *memoryCache) Put(_ context.Context, key string, results []domain.LocationResult) error {
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[key] = results
	return nil
}

func TestFindStorageRanksFeasibleLocations(t *testing.T) {
	tests := []struct {
		name     string
		listings []domain.Listing
		vehicles []domain.VehicleRequest
		want     []domain.LocationResult
	}{
		{
			name:     "single listing fits",
			listings: []domain.Listing{{ID: "L1", LocationID: "A", Length: 20, Width: 12, PriceInCents: 100}},
			vehicles: []domain.VehicleRequest{{Length: 15, Quantity: 1}},
			want:     []domain.LocationResult{{LocationID: "A", ListingIDs: []string{"L1"}, TotalPriceInCents: 100}},
		},
		{
			name:     "narrow listing excluded",
			listings: []domain.Listing{{ID: "L1", LocationID: "A", Length: 10, Width: 8, PriceInCents: 50}},
			vehicles: []domain.VehicleRequest{{Length: 5, Quantity: 1}},
			want:     []domain.LocationResult{},
		},
		{
			name: "cheaper listing selected",
			listings: []domain.Listing{
				{ID: "L1", LocationID: "A", Length: 20, Width: 12, PriceInCents: 200},
				{ID: "L2", LocationID: "A", Length: 20, Width: 12, PriceInCents: 100},
			},
			vehicles: []domain.VehicleRequest{{Length: 15, Quantity: 1}},
			want:     []domain.LocationResult{{LocationID: "A", ListingIDs: []string{"L2"}, TotalPriceInCents: 100}},
		},
		{
			name: "locations ranked by total",
			listings: []domain.Listing{
				{ID: "X1", LocationID: "X", Length: 20, Width: 12, PriceInCents: 300},
				{ID: "Y1", LocationID: "Y", Length: 20, Width: 12, PriceInCents: 150},
			},
			vehicles: []domain.VehicleRequest{{Length: 15, Quantity: 1}},
			want: []domain.LocationResult{
				{LocationID: "Y", ListingIDs: []string{"Y1"}, TotalPriceInCents: 150},
				{LocationID: "X", ListingIDs: []string{"X1"}, TotalPriceInCents: 300},
			},
		},
		{
			name: "location short on qualifying listings excluded",
			listings: []domain.Listing{
				{ID: "A1", LocationID: "A", Length: 20, Width: 12, PriceInCents: 100},
				{ID: "A2", LocationID: "A", Length: 5, Width: 20, PriceInCents: 10},
				{ID: "A3", LocationID: "A", Length: 50, Width: 5, PriceInCents: 10},
				{ID: "B1", LocationID: "B", Length: 20, Width: 12, PriceInCents: 400},
				{ID: "B2", LocationID: "B", Length: 20, Width: 12, PriceInCents: 400},
			},
			vehicles: []domain.VehicleRequest{{Length: 15, Quantity: 2}},
			want:     []domain.LocationResult{{LocationID: "B", ListingIDs: []string{"B1", "B2"}, TotalPriceInCents: 800}},
		},
		{
			name: "ties keep first-seen location order",
			listings: []domain.Listing{
				{ID: "Z1", LocationID: "Z", Length: 20, Width: 12, PriceInCents: 100},
				{ID: "M1", LocationID: "M", Length: 20, Width: 12, PriceInCents: 100},
			},
			vehicles: []domain.VehicleRequest{{Length: 15, Quantity: 1}},
			want: []domain.LocationResult{
				{LocationID: "Z", ListingIDs: []string{"Z1"}, TotalPriceInCents: 100},
				{LocationID: "M", ListingIDs: []string{"M1"}, TotalPriceInCents: 100},
			},
		},
		{
			name:     "empty inventory",
			listings: nil,
			vehicles: []domain.VehicleRequest{{Length: 15, Quantity: 1}},
			want:     []domain.LocationResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewInventoryIndex(tt.listings)
			got := FindStorage(context.Background(), idx, tt.vehicles)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindStorageNoRequestsMatchesEveryLocation(t *testing.T) {
	idx := NewInventoryIndex([]domain.Listing{
		{ID: "A1", LocationID: "A", Length: 20, Width: 12, PriceInCents: 100},
		{ID: "B1", LocationID: "B", Length: 20, Width: 2, PriceInCents: 100},
	})

	got := FindStorage(context.Background(), idx, nil)

	assert.Equal(t, []domain.LocationResult{
		{LocationID: "A", ListingIDs: []string{}, TotalPriceInCents: 0},
		{LocationID: "B", ListingIDs: []string{}, TotalPriceInCents: 0},
	}, got)
}

func randomInventory(r *rand.Rand, n int) []domain.Listing {
	locs := []string{"north", "south", "east", "west", "central"}
	out := make([]domain.Listing, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Listing{
			ID:           "L" + strconv.Itoa(i),
			LocationID:   locs[r.Intn(len(locs))],
			Length:       5 + r.Intn(40),
			Width:        5 + r.Intn(15),
			PriceInCents: r.Intn(5) * 100,
		})
	}
	return out
}

func randomVehicles(r *rand.Rand) []domain.VehicleRequest {
	n := r.Intn(4)
	out := make([]domain.VehicleRequest, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.VehicleRequest{Length: 5 + r.Intn(35), Quantity: r.Intn(3)})
	}
	return out
}

func TestFindStorageRandomInventories(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		listings := randomInventory(r, 1+r.Intn(30))
		vehicles := randomVehicles(r)
		idx := NewInventoryIndex(listings)

		byID := make(map[string]domain.Listing, len(listings))
		for _, l := range listings {
			byID[l.ID] = l
		}
		firstSeen := make(map[string]int)
		for i, loc := range idx.Locations() {
			firstSeen[loc] = i
		}

		got := FindStorage(context.Background(), idx, vehicles)

		// Sorted by total; ties follow first-seen location order.
		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1], got[i]
			require.LessOrEqual(t, prev.TotalPriceInCents, cur.TotalPriceInCents)
			if prev.TotalPriceInCents == cur.TotalPriceInCents {
				require.Less(t, firstSeen[prev.LocationID], firstSeen[cur.LocationID])
			}
		}

		present := make(map[string]bool, len(got))
		for _, res := range got {
			present[res.LocationID] = true

			seen := make(map[string]struct{})
			pos, total := 0, 0
			for _, v := range vehicles {
				for q := 0; q < v.Quantity; q++ {
					require.Less(t, pos, len(res.ListingIDs))
					l := byID[res.ListingIDs[pos]]
					pos++

					require.Equal(t, res.LocationID, l.LocationID)
					require.GreaterOrEqual(t, l.Length, v.Length)
					require.GreaterOrEqual(t, l.Width, domain.MinListingWidth)
					_, dup := seen[l.ID]
					require.False(t, dup, "listing %s selected twice", l.ID)
					seen[l.ID] = struct{}{}
					total += l.PriceInCents
				}
			}
			require.Equal(t, len(res.ListingIDs), pos)
			require.Equal(t, total, res.TotalPriceInCents)
		}

		// Absent locations are exactly the ones the greedy evaluation rejects.
		for _, loc := range idx.Locations() {
			m := EvaluateLocation(loc, idx.Listings(loc), vehicles)
			require.Equal(t, m.Feasible, present[loc], "location %s", loc)
		}
	}
}

func TestFindStorageIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	idx := NewInventoryIndex(randomInventory(r, 40))
	vehicles := []domain.VehicleRequest{{Length: 10, Quantity: 1}, {Length: 20, Quantity: 2}}

	first, err := json.Marshal(FindStorage(context.Background(), idx, vehicles))
	require.NoError(t, err)
	second, err := json.Marshal(FindStorage(context.Background(), idx, vehicles))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestSearchStorageUsesCache(t *testing.T) {
	idx := NewInventoryIndex([]domain.Listing{{ID: "L1", LocationID: "A", Length: 20, Width: 12, PriceInCents: 100}})
	vehicles := []domain.VehicleRequest{{Length: 15, Quantity: 1}}
	cache := newMemoryCache()

	first := SearchStorage(context.Background(), idx, cache, vehicles)
	require.Equal(t, 1, cache.puts)

	key := MatchCacheKey(idx.Fingerprint(), vehicles)
	cache.entries[key] = []domain.LocationResult{{LocationID: "from-cache"}}

	second := SearchStorage(context.Background(), idx, cache, vehicles)

	assert.Equal(t, "A", first[0].LocationID)
	assert.Equal(t, "from-cache", second[0].LocationID)
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, 2, cache.gets)
}

func TestSearchStorageIgnoresCacheErrors(t *testing.T) {
	idx := NewInventoryIndex([]domain.Listing{{ID: "L1", LocationID: "A", Length: 20, Width: 12, PriceInCents: 100}})
	vehicles := []domain.VehicleRequest{{Length: 15, Quantity: 1}}
	cache := newMemoryCache()
	cache.getErr = errors.New("read down")
	cache.putErr = errors.New("write down")

	got := SearchStorage(context.Background(), idx, cache, vehicles)

	assert.Equal(t, []domain.LocationResult{{LocationID: "A", ListingIDs: []string{"L1"}, TotalPriceInCents: 100}}, got)
}

func TestSearchStorageWithoutCache(t *testing.T) {
	idx := NewInventoryIndex(nil)

	got := SearchStorage(context.Background(), idx, nil, nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatchCacheKey(t *testing.T) {
	a := MatchCacheKey("abc", []domain.VehicleRequest{{Length: 10, Quantity: 1}, {Length: 20, Quantity: 2}})
	b := MatchCacheKey("abc", []domain.VehicleRequest{{Length: 20, Quantity: 2}, {Length: 10, Quantity: 1}})

	assert.Equal(t, "match:abc:10x1,20x2", a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "match:abc:", MatchCacheKey("abc", nil))
}
