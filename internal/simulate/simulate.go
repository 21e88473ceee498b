// Package simulate recomputes a trip's schedule and totals from scratch
// and reports whether it remains feasible, per spec.md §4.2. It is the
// single source of truth consulted by the insertion oracle, the I1
// constructor, and every ALNS destroy/repair step; none of those callers
// mutate a trip's times or totals directly.
package simulate

import (
	"fmt"

	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/model"
)

// pickupServiceMinutes is the fixed boarding time charged at every
// pickup stop (spec.md §4.2 step 4).
const pickupServiceMinutes = 2

// Simulate recomputes arrivals, service starts, departures, distance,
// and cost for trip, given the vehicle operating it and the full
// employee set (for resolving pickup stops to ready/due times). It
// returns false, leaving trip unmodified in shape but partially
// recomputed in place, on any invariant violation — callers that need
// to probe feasibility without committing a failed trial must operate
// on a clone (model.Trip.Clone), per spec.md §7.
func Simulate(trip *model.Trip, v *model.Vehicle, employees map[string]*model.Employee, g *geo.Service) (ok bool, err error) {
	if len(trip.Stops) < 2 {
		return false, nil
	}
	last := trip.Stops[len(trip.Stops)-1]
	if last.EmployeeID != model.StopEnd {
		return false, nil
	}

	// Step 2: force first stop to START and last to END. END keeps the
	// location the trip was built with; Simulate does not move it to
	// OFFICE (model.NewTrip places it there).
	trip.Stops[0].EmployeeID = model.StopStart
	trip.Stops[0].IsPickup = false
	trip.Stops[len(trip.Stops)-1].EmployeeID = model.StopEnd
	trip.Stops[len(trip.Stops)-1].IsPickup = false

	// Step 3: resolve each non-sentinel stop to its employee.
	resolved := make([]*model.Employee, len(trip.Stops))
	for i, s := range trip.Stops {
		if s.IsSentinel() {
			continue
		}
		e, found := employees[s.EmployeeID]
		if !found {
			return false, fmt.Errorf("simulate: unknown employee id %q", s.EmployeeID)
		}
		resolved[i] = e
		trip.Stops[i].Loc = e.Pickup
		trip.Stops[i].IsPickup = true
	}

	// Step 4: walk the sequence, accumulating time and distance.
	totalDistance := 0.0
	for i := 1; i < len(trip.Stops); i++ {
		prev := trip.Stops[i-1]
		cur := &trip.Stops[i]

		d := g.DistByID(prev.EmployeeID, cur.EmployeeID, prev.Loc, cur.Loc)
		totalDistance += d
		t := geo.TravelMinutes(d, v.SpeedKmh)
		arrival := prev.DepartureTime + t
		cur.ArrivalTime = arrival

		if cur.EmployeeID == model.StopEnd {
			cur.BeginService = arrival
			cur.DepartureTime = arrival
			continue
		}

		e := resolved[i]
		cur.BeginService = max(arrival, e.ReadyTime)
		cur.DepartureTime = cur.BeginService + pickupServiceMinutes
	}

	// Step 5: every pickup's due time must be honored by the trip's END
	// arrival.
	endArrival := trip.Stops[len(trip.Stops)-1].ArrivalTime
	for i, s := range trip.Stops {
		if !s.IsPickup {
			continue
		}
		if endArrival > resolved[i].DueTime {
			return false, nil
		}
	}

	// Step 6: recompute capacity and totals.
	trip.CurrentCapacity = len(trip.Stops) - 2
	trip.TotalDistanceKm = totalDistance
	trip.TotalCost = totalDistance * v.CostPerKm

	return true, nil
}

// Compatible is the pre-simulation filter of spec.md §4.2: it rejects a
// prospective employee on a route before paying for a full simulation.
func Compatible(e *model.Employee, v *model.Vehicle, trip *model.Trip, sharingCapsEnabled bool) bool {
	if e.VehiclePref == model.CategoryPremium && v.Category != model.CategoryPremium {
		return false
	}
	limit := trip.MaxCapacity
	if v.Capacity < limit {
		limit = v.Capacity
	}
	if sharingCapsEnabled {
		if cap := model.SharingCap(e.SharingPref); cap < limit {
			limit = cap
		}
	}
	return trip.CurrentCapacity+1 <= limit
}
