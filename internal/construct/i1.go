// Package construct builds an initial solution with the Solomon I1
// sequential insertion heuristic of spec.md §4.4: employees sorted by
// tightest time window first, each placed on the best-scoring
// (vehicle, trip, position) under the insertion oracle, opening new
// trips on demand.
//
// Grounded on the same sort-then-greedily-place-or-record-a-reason shape
// as internal/common/fleet/driver_assigner.go's AssignDriver.
package construct

import (
	"fmt"
	"sort"

	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/insertion"
	"github.com/shuttlefleet/routeopt/internal/model"
	"github.com/shuttlefleet/routeopt/internal/simulate"
)

// Build constructs an initial solution in place: every vehicle opens its
// first trip, then every employee is placed or given an unrouted reason.
func Build(sol *model.Solution, g *geo.Service, p insertion.Params) {
	for _, v := range sol.Vehicles {
		v.AvailableTime = v.AvailableFrom
		v.CurrentLoc = v.DepotLoc
		trip := model.NewTrip(v.DepotLoc, sol.Office, v.AvailableTime, v.Capacity)
		v.Trips = []*model.Trip{trip}
	}

	order := sortedUnrouted(sol)
	for _, id := range order {
		e := sol.Employees[id]
		placeOne(sol, e, g, p)
	}

	for _, v := range sol.Vehicles {
		v.RecomputeTotalCost()
	}
}

// sortedUnrouted returns every employee id currently unrouted, ascending
// by (DueTime, ReadyTime) — tightest windows first (spec.md §4.4 step 1).
func sortedUnrouted(sol *model.Solution) []string {
	ids := make([]string, 0, len(sol.Employees))
	for id, e := range sol.Employees {
		if !e.IsRouted {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := sol.Employees[ids[i]], sol.Employees[ids[j]]
		if a.DueTime != b.DueTime {
			return a.DueTime < b.DueTime
		}
		if a.ReadyTime != b.ReadyTime {
			return a.ReadyTime < b.ReadyTime
		}
		return ids[i] < ids[j]
	})
	return ids
}

type candidate struct {
	vehicle  *model.Vehicle
	trip     *model.Trip
	position int
	c2       float64
}

// placeOne tries to place e on some vehicle's last trip, falling back to
// opening a new trip; failing both, it records a precise unrouted
// reason (spec.md §4.4 step 3).
func placeOne(sol *model.Solution, e *model.Employee, g *geo.Service, p insertion.Params) {
	var best *candidate

	for _, v := range sol.Vehicles {
		trip := v.LastTrip()
		if trip == nil {
			continue
		}
		if !simulate.Compatible(e, v, trip, p.SharingCapsEnabled) {
			continue
		}
		res, ok := insertion.Best(trip, e, v, sol.Employees, g, p)
		if !ok {
			continue
		}
		regret := insertion.Regret2(trip, e, v, sol.Employees, g, p)
		dStart := g.DistByID(model.StopStart, e.ID, trip.Stops[0].Loc, e.Pickup)
		c2 := p.Lambda*dStart - res.C1 + 0.5*regret

		if best == nil || c2 > best.c2 {
			best = &candidate{vehicle: v, trip: trip, position: res.Position, c2: c2}
		}
	}

	if best != nil {
		apply(sol, e, best.vehicle, best.trip, best.position, g)
		return
	}

	if opened := openNewTrip(sol, e, g, p); opened {
		return
	}

	sol.MarkUnrouted(e.ID, unroutedReason(sol, e, g, p))
}

// apply commits a feasible insertion found on an existing trip.
func apply(sol *model.Solution, e *model.Employee, v *model.Vehicle, trip *model.Trip, pos int, g *geo.Service) {
	trip.InsertAt(pos, e.ID, e.Pickup)
	ok, err := simulate.Simulate(trip, v, sol.Employees, g)
	if err != nil || !ok {
		// The oracle already proved this position feasible on a clone;
		// a mismatch here means the shared employee map changed
		// concurrently, which the single-threaded constructor never
		// does. Defensive, not expected to trigger.
		trip.RemoveEmployee(e.ID)
		_, _ = simulate.Simulate(trip, v, sol.Employees, g)
		sol.MarkUnrouted(e.ID, "insertion failed during commit")
		return
	}
	v.AvailableTime = trip.EndTime()
	v.CurrentLoc = trip.Stops[len(trip.Stops)-1].Loc
	sol.MarkRouted(e.ID)
}

// openNewTrip tries to start a fresh trip, at OFFICE, on the first
// compatible vehicle in fleet order (spec.md §4.4 step 3).
func openNewTrip(sol *model.Solution, e *model.Employee, g *geo.Service, p insertion.Params) bool {
	for _, v := range sol.Vehicles {
		trip := model.NewTrip(sol.Office, sol.Office, v.AvailableTime, v.Capacity)
		if !simulate.Compatible(e, v, trip, p.SharingCapsEnabled) {
			continue
		}
		trip.InsertAt(1, e.ID, e.Pickup)
		ok, err := simulate.Simulate(trip, v, sol.Employees, g)
		if err != nil || !ok {
			continue
		}
		v.Trips = append(v.Trips, trip)
		v.AvailableTime = trip.EndTime()
		v.CurrentLoc = trip.Stops[len(trip.Stops)-1].Loc
		sol.MarkRouted(e.ID)
		return true
	}
	return false
}

// unroutedReason produces a precise diagnostic for why e could not be
// placed, checked in the priority order a caller would diagnose them.
func unroutedReason(sol *model.Solution, e *model.Employee, g *geo.Service, p insertion.Params) string {
	if len(sol.Vehicles) == 0 {
		return fmt.Sprintf("no vehicles available for %s", e.ID)
	}

	anyCategoryMatch := false
	for _, v := range sol.Vehicles {
		if e.VehiclePref != model.CategoryPremium || v.Category == model.CategoryPremium {
			anyCategoryMatch = true
			break
		}
	}
	if !anyCategoryMatch {
		return fmt.Sprintf("vehicle category preference unmet for %s", e.ID)
	}

	for _, v := range sol.Vehicles {
		trip := model.NewTrip(sol.Office, sol.Office, v.AvailableTime, v.Capacity)
		if !simulate.Compatible(e, v, trip, p.SharingCapsEnabled) {
			continue
		}
		trial := trip.Clone()
		trial.InsertAt(1, e.ID, e.Pickup)
		if ok, _ := simulate.Simulate(trial, v, sol.Employees, g); !ok {
			return fmt.Sprintf("latest_drop violated for %s", e.ID)
		}
	}

	return fmt.Sprintf("could not start a new trip: capacity for %s", e.ID)
}
