package model

// Trip is a contiguous vehicle tour: START, zero or more pickups, END at
// OFFICE. CurrentCapacity is the number of pickup stops; MaxCapacity is
// the effective cap for this trip (<= vehicle capacity, further tightened
// by sharing-preference caps when enabled).
type Trip struct {
	Stops           []Stop
	CurrentCapacity int
	MaxCapacity     int
	TotalDistanceKm float64
	TotalCost       float64
}

// NewTrip returns a fresh two-stop trip: START at startLoc/startTime,
// END at office (times recomputed once Simulate runs).
func NewTrip(startLoc, office Location, startTime, maxCapacity int) *Trip {
	return &Trip{
		Stops: []Stop{
			{EmployeeID: StopStart, Loc: startLoc, ArrivalTime: startTime, BeginService: startTime, DepartureTime: startTime},
			{EmployeeID: StopEnd, Loc: office},
		},
		MaxCapacity: maxCapacity,
	}
}

// Clone returns a deep copy of the trip (its own stop slice).
func (t *Trip) Clone() *Trip {
	cp := &Trip{
		Stops:           make([]Stop, len(t.Stops)),
		CurrentCapacity: t.CurrentCapacity,
		MaxCapacity:     t.MaxCapacity,
		TotalDistanceKm: t.TotalDistanceKm,
		TotalCost:       t.TotalCost,
	}
	copy(cp.Stops, t.Stops)
	return cp
}

// EmployeeIDs returns the ids of every pickup stop on the trip, in order.
func (t *Trip) EmployeeIDs() []string {
	ids := make([]string, 0, len(t.Stops))
	for _, s := range t.Stops {
		if s.IsPickup {
			ids = append(ids, s.EmployeeID)
		}
	}
	return ids
}

// StartTime is the trip's START departure time.
func (t *Trip) StartTime() int {
	return t.Stops[0].DepartureTime
}

// EndTime is the trip's END arrival time.
func (t *Trip) EndTime() int {
	return t.Stops[len(t.Stops)-1].ArrivalTime
}

// RemoveEmployee erases the pickup stop for id, if present, returning
// whether it was found.
func (t *Trip) RemoveEmployee(id string) bool {
	for i, s := range t.Stops {
		if s.IsPickup && s.EmployeeID == id {
			t.Stops = append(t.Stops[:i], t.Stops[i+1:]...)
			return true
		}
	}
	return false
}

// InsertAt inserts a pickup stop for employeeID immediately before index
// pos (1 <= pos <= len(Stops)-1, i.e. strictly between START and END).
func (t *Trip) InsertAt(pos int, employeeID string, loc Location) {
	stop := Stop{EmployeeID: employeeID, Loc: loc, IsPickup: true}
	t.Stops = append(t.Stops, Stop{})
	copy(t.Stops[pos+1:], t.Stops[pos:])
	t.Stops[pos] = stop
}
