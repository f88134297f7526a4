package domain

import "testing"

func TestListingFits(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		length  int
		want    bool
	}{
		{"longer and wide", Listing{Length: 20, Width: 12}, 15, true},
		{"exact length", Listing{Length: 15, Width: 10}, 15, true},
		{"too short", Listing{Length: 10, Width: 12}, 15, false},
		{"too narrow", Listing{Length: 10, Width: 8}, 5, false},
		{"zero length request", Listing{Length: 1, Width: 10}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.listing.Fits(tt.length); got != tt.want {
				t.Errorf("Fits(%d) = %v, want %v", tt.length, got, tt.want)
			}
		})
	}
}

func TestListingValidate(t *testing.T) {
	valid := Listing{ID: "L1", LocationID: "A", Length: 20, Width: 10, PriceInCents: 0}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []Listing{
		{ID: "", LocationID: "A", Length: 20, Width: 10},
		{ID: "L1", LocationID: " ", Length: 20, Width: 10},
		{ID: "L1", LocationID: "A", Length: 0, Width: 10},
		{ID: "L1", LocationID: "A", Length: 20, Width: -1},
		{ID: "L1", LocationID: "A", Length: 20, Width: 10, PriceInCents: -5},
	}
	for i, l := range bad {
		if err := l.Validate(); err == nil {
			t.Errorf("case %d: expected error for %+v", i, l)
		}
	}
}

func TestTotalQuantity(t *testing.T) {
	vehicles := []VehicleRequest{
		{Length: 10, Quantity: 1},
		{Length: 20, Quantity: 3},
		{Length: 25, Quantity: 0},
	}
	if got := TotalQuantity(vehicles); got != 4 {
		t.Fatalf("TotalQuantity = %d, want 4", got)
	}
	if got := TotalQuantity(nil); got != 0 {
		t.Fatalf("TotalQuantity(nil) = %d, want 0", got)
	}
}
