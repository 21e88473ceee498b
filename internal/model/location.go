// Package model holds the domain types shared by the ingest, simulate,
// insertion, construct, alns, and report packages: locations, employees,
// vehicles, stops, trips, and the mutable solution container.
package model

import "math"

// Location is a pair of decimal-degree coordinates.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Equal reports whether two locations are the same point within a tight
// floating-point tolerance.
func (l Location) Equal(o Location) bool {
	const eps = 1e-9
	return math.Abs(l.Lat-o.Lat) < eps && math.Abs(l.Lng-o.Lng) < eps
}
