package model

// Vehicle is a fleet unit. AvailableTime and CurrentLoc advance
// monotonically as trips are appended: the first trip starts at
// DepotLoc/the vehicle's initial availability, every later trip starts at
// OFFICE no earlier than the previous trip's END.
type Vehicle struct {
	ID            string
	Capacity      int
	CostPerKm     float64
	SpeedKmh      float64
	DepotLoc      Location
	AvailableFrom int
	Category      VehicleCategory

	AvailableTime int
	CurrentLoc    Location
	Trips         []*Trip
	TotalCost     float64
}

// Clone returns a deep copy of the vehicle, including its trips.
func (v *Vehicle) Clone() *Vehicle {
	cp := *v
	cp.Trips = make([]*Trip, len(v.Trips))
	for i, t := range v.Trips {
		cp.Trips[i] = t.Clone()
	}
	return &cp
}

// LastTrip returns the vehicle's current (last) trip, or nil if it has
// none yet.
func (v *Vehicle) LastTrip() *Trip {
	if len(v.Trips) == 0 {
		return nil
	}
	return v.Trips[len(v.Trips)-1]
}

// RecomputeTotalCost sums the cost of every trip into TotalCost.
func (v *Vehicle) RecomputeTotalCost() {
	total := 0.0
	for _, t := range v.Trips {
		total += t.TotalCost
	}
	v.TotalCost = total
}
