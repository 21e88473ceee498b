// Package insertion implements the Solomon c1 insertion oracle of
// spec.md §4.3: given a route, a candidate employee, and a vehicle, find
// the best feasible insertion position and its cost, or report that none
// exists.
//
// Grounded on the teacher's internal/common/fleet/driver_assigner.go
// candidate-ranking shape (score every candidate, keep the best) adapted
// from ranking drivers to ranking insertion positions.
package insertion

import (
	"math"

	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/model"
	"github.com/shuttlefleet/routeopt/internal/simulate"
)

// Params holds the Solomon weighting coefficients of spec.md §4.3.
type Params struct {
	Alpha1             float64
	Alpha2             float64
	Mu                 float64
	Lambda             float64
	SharingCapsEnabled bool
}

// DefaultParams returns the spec's documented defaults.
func DefaultParams() Params {
	return Params{Alpha1: 0.5, Alpha2: 0.5, Mu: 1.0, Lambda: 2.0}
}

// Result is a feasible insertion found by Best.
type Result struct {
	Position int // index to insert before, in [1, len(trip.Stops)-1]
	C1       float64
}

// Best tries every insertion position for employee e on trip (operated
// by v), returning the position minimizing c1, or ok=false if no
// position is feasible. trip is never mutated; callers apply the winning
// position themselves via model.Trip.InsertAt + a committing Simulate
// call.
func Best(trip *model.Trip, e *model.Employee, v *model.Vehicle, employees map[string]*model.Employee, g *geo.Service, p Params) (res Result, ok bool) {
	results := AllFeasible(trip, e, v, employees, g, p)
	if len(results) == 0 {
		return Result{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.C1 < best.C1 {
			best = r
		}
	}
	return best, true
}

// AllFeasible returns every feasible insertion position and its c1 cost,
// unsorted, for use by callers computing regret (spec.md §4.3's
// regret-2: second_best_c1 - best_c1, undefined — treated as +Inf by
// callers — when fewer than two positions are feasible).
func AllFeasible(trip *model.Trip, e *model.Employee, v *model.Vehicle, employees map[string]*model.Employee, g *geo.Service, p Params) []Result {
	if !simulate.Compatible(e, v, trip, p.SharingCapsEnabled) {
		return nil
	}

	var results []Result
	for pos := 1; pos < len(trip.Stops); pos++ {
		trial := trip.Clone()
		trial.InsertAt(pos, e.ID, e.Pickup)

		ok, err := simulate.Simulate(trial, v, employees, g)
		if err != nil || !ok {
			continue
		}

		prev := trip.Stops[pos-1]
		next := trip.Stops[pos]
		dPrevU := g.DistByID(prev.EmployeeID, e.ID, prev.Loc, e.Pickup)
		dUNext := g.DistByID(e.ID, next.EmployeeID, e.Pickup, next.Loc)
		dPrevNext := g.DistByID(prev.EmployeeID, next.EmployeeID, prev.Loc, next.Loc)

		travelPrevU := geo.TravelMinutes(dPrevU, v.SpeedKmh)
		bU := prev.DepartureTime + travelPrevU
		if bU < e.ReadyTime {
			bU = e.ReadyTime
		}

		c1 := p.Alpha1*(dPrevU+dUNext-p.Mu*dPrevNext) + p.Alpha2*(float64(bU-prev.DepartureTime))
		results = append(results, Result{Position: pos, C1: c1})
	}
	return results
}

// Regret2 returns second_best_c1 - best_c1 across every feasible
// position on trip for e, or +Inf when fewer than two positions are
// feasible (spec.md §4.3), forcing callers to prioritize uniquely
// feasible employees.
func Regret2(trip *model.Trip, e *model.Employee, v *model.Vehicle, employees map[string]*model.Employee, g *geo.Service, p Params) float64 {
	results := AllFeasible(trip, e, v, employees, g, p)
	if len(results) < 2 {
		return math.Inf(1)
	}

	best, second := math.Inf(1), math.Inf(1)
	for _, r := range results {
		switch {
		case r.C1 < best:
			second = best
			best = r.C1
		case r.C1 < second:
			second = r.C1
		}
	}
	return second - best
}
