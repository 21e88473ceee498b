// Package geo computes great-circle distance between stops, with an
// optional override table for specific id pairs, and converts distance
// into travel time at a given cruising speed.
//
// Grounded on the teacher's own Haversine implementation, used twice in
// the pack (internal/common/geofencing.calculateDistance and
// internal/common/fleet.RouteOptimizer.calculateDistance) with the same
// formula and Earth radius, confirming it's the house idiom rather than
// a one-off.
package geo

import (
	"math"
	"strings"

	"github.com/shuttlefleet/routeopt/internal/model"
)

// earthRadiusKm is the mean Earth radius used throughout the corpus.
const earthRadiusKm = 6371.0

// infeasibleTravelMinutes is the sentinel returned when a vehicle cannot
// move (speed <= 0); spec.md §4.1 requires a value >= 1e9.
const infeasibleTravelMinutes = 1_000_000_000

// Dist returns the great-circle distance between a and b, in kilometres.
func Dist(a, b model.Location) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Service resolves distance between stop ids, consulting an override
// table before falling back to Dist. Overrides are registered for an
// unordered pair of normalized ids; norm maps any of the office-like
// aliases {"drop","DROP","END","OFFICE","Office"} to "drop" so the table
// can be keyed once regardless of which alias a caller used.
type Service struct {
	overrides map[pairKey]float64 // metres
}

type pairKey struct{ a, b string }

// NewService returns a geo service with no registered overrides.
func NewService() *Service {
	return &Service{overrides: make(map[pairKey]float64)}
}

func norm(id string) string {
	switch id {
	case "drop", "DROP", "END", "OFFICE", "Office":
		return "drop"
	default:
		return strings.ToLower(id)
	}
}

func key(a, b string) pairKey {
	a, b = norm(a), norm(b)
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// RegisterOverride sets the distance (in metres) between fromID and toID,
// symmetric regardless of order.
func (s *Service) RegisterOverride(fromID, toID string, metres float64) {
	s.overrides[key(fromID, toID)] = metres
}

// DistByID returns the distance in kilometres between stops fromID/toID
// at locations a/b: the registered override if one exists for the
// unordered normalized pair, otherwise Dist(a, b).
func (s *Service) DistByID(fromID, toID string, a, b model.Location) float64 {
	if m, ok := s.overrides[key(fromID, toID)]; ok {
		return m / 1000.0
	}
	return Dist(a, b)
}

// TravelMinutes converts a distance and cruising speed into whole
// minutes of travel time, rounded to nearest. A non-positive speed
// yields the infeasible sentinel rather than a division by zero or a
// negative duration.
func TravelMinutes(km, speedKmh float64) int {
	if speedKmh <= 0 {
		return infeasibleTravelMinutes
	}
	return int(math.Round(km / speedKmh * 60))
}
