package domain

// A requested number of storage slots, each at least Length feet long.
type VehicleRequest struct {
	Length   int
	Quantity int
}

// TotalQuantity sums the requested slot count across all request lines.
func TotalQuantity(vehicles []VehicleRequest) int {
	total := 0
	for _, v := range vehicles {
		total += v.Quantity
	}
	return total
}
