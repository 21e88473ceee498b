package model

// Solution is the mutable state shared by the constructor and ALNS: the
// employee and vehicle sets, and the reason an employee currently fails
// to route, if any.
//
// Cloning is a deep structural copy: trial solutions evaluated during
// ALNS never alias the current solution's trips or stops (spec.md §3,
// §9 "Deep-cloning of solutions").
type Solution struct {
	Employees map[string]*Employee
	Vehicles  []*Vehicle
	Unrouted  map[string]string // employee id -> reason
	Office    Location
}

// NewSolution builds an empty solution rooted at office.
func NewSolution(office Location) *Solution {
	return &Solution{
		Employees: make(map[string]*Employee),
		Unrouted:  make(map[string]string),
		Office:    office,
	}
}

// Clone returns a deep copy: every employee, vehicle, trip, and stop is
// copied, never shared with the receiver.
func (s *Solution) Clone() *Solution {
	cp := &Solution{
		Employees: make(map[string]*Employee, len(s.Employees)),
		Vehicles:  make([]*Vehicle, len(s.Vehicles)),
		Unrouted:  make(map[string]string, len(s.Unrouted)),
		Office:    s.Office,
	}
	for id, e := range s.Employees {
		ec := e.Clone()
		cp.Employees[id] = &ec
	}
	for i, v := range s.Vehicles {
		cp.Vehicles[i] = v.Clone()
	}
	for id, reason := range s.Unrouted {
		cp.Unrouted[id] = reason
	}
	return cp
}

// MarkRouted clears any unrouted reason for id and sets IsRouted.
func (s *Solution) MarkRouted(id string) {
	if e, ok := s.Employees[id]; ok {
		e.IsRouted = true
	}
	delete(s.Unrouted, id)
}

// MarkUnrouted records reason for id and clears IsRouted.
func (s *Solution) MarkUnrouted(id, reason string) {
	if e, ok := s.Employees[id]; ok {
		e.IsRouted = false
	}
	s.Unrouted[id] = reason
}

// RoutedEmployeeIDs returns the ids of every currently routed employee.
func (s *Solution) RoutedEmployeeIDs() []string {
	ids := make([]string, 0, len(s.Employees))
	for id, e := range s.Employees {
		if e.IsRouted {
			ids = append(ids, id)
		}
	}
	return ids
}

// TotalCost sums every vehicle's TotalCost.
func (s *Solution) TotalCost() float64 {
	total := 0.0
	for _, v := range s.Vehicles {
		total += v.TotalCost
	}
	return total
}

// UnroutedCount is the number of employees currently unrouted.
func (s *Solution) UnroutedCount() int {
	return len(s.Unrouted)
}

// VehicleByID finds a vehicle by id, or nil.
func (s *Solution) VehicleByID(id string) *Vehicle {
	for _, v := range s.Vehicles {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// EmployeeTripLocation returns the (vehicle index, trip index) carrying
// employee id, or (-1, -1) if the employee is not currently placed.
func (s *Solution) EmployeeTripLocation(id string) (vehicleIdx, tripIdx int) {
	for vi, v := range s.Vehicles {
		for ti, t := range v.Trips {
			for _, st := range t.Stops {
				if st.IsPickup && st.EmployeeID == id {
					return vi, ti
				}
			}
		}
	}
	return -1, -1
}
