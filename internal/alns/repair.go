package alns

import (
	"math"

	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/insertion"
	"github.com/shuttlefleet/routeopt/internal/model"
	"github.com/shuttlefleet/routeopt/internal/simulate"
)

// repair reinserts every employee in removed into sol, considering all
// trips of all vehicles (spec.md §4.5 step 6 — unlike the constructor,
// ALNS may legitimately densify earlier trips). Employees that cannot be
// placed anywhere are left unrouted with a reason. Every vehicle's
// TotalCost is then recomputed from its trips, so score sees the
// destroyed-and-repaired costs.
func repair(sol *model.Solution, removed []string, g *geo.Service, p insertion.Params, useRegret2 bool) {
	if useRegret2 {
		repairRegret2(sol, removed, g, p)
	} else {
		repairGreedy(sol, removed, g, p)
	}
	for _, v := range sol.Vehicles {
		v.RecomputeTotalCost()
	}
}

type placement struct {
	vehicle  *model.Vehicle
	trip     *model.Trip
	position int
	c1       float64
}

// bestPlacementAcrossFleet scans every trip of every vehicle for the
// best feasible insertion of e.
func bestPlacementAcrossFleet(sol *model.Solution, e *model.Employee, g *geo.Service, p insertion.Params) (placement, bool) {
	var best placement
	found := false
	for _, v := range sol.Vehicles {
		for _, trip := range v.Trips {
			if !simulate.Compatible(e, v, trip, p.SharingCapsEnabled) {
				continue
			}
			res, ok := insertion.Best(trip, e, v, sol.Employees, g, p)
			if !ok {
				continue
			}
			if !found || res.C1 < best.c1 {
				best = placement{vehicle: v, trip: trip, position: res.Position, c1: res.C1}
				found = true
			}
		}
	}
	return best, found
}

// regretAcrossFleet mirrors insertion.Regret2 but pooling feasible
// positions from every trip of every vehicle.
func regretAcrossFleet(sol *model.Solution, e *model.Employee, g *geo.Service, p insertion.Params) float64 {
	var c1s []float64
	for _, v := range sol.Vehicles {
		for _, trip := range v.Trips {
			if !simulate.Compatible(e, v, trip, p.SharingCapsEnabled) {
				continue
			}
			for _, r := range insertion.AllFeasible(trip, e, v, sol.Employees, g, p) {
				c1s = append(c1s, r.C1)
			}
		}
	}
	if len(c1s) < 2 {
		return math.Inf(1)
	}
	best, second := math.Inf(1), math.Inf(1)
	for _, c1 := range c1s {
		switch {
		case c1 < best:
			second = best
			best = c1
		case c1 < second:
			second = c1
		}
	}
	return second - best
}

func commitPlacement(sol *model.Solution, e *model.Employee, pl placement, g *geo.Service) bool {
	pl.trip.InsertAt(pl.position, e.ID, e.Pickup)
	ok, err := simulate.Simulate(pl.trip, pl.vehicle, sol.Employees, g)
	if err != nil || !ok {
		pl.trip.RemoveEmployee(e.ID)
		_, _ = simulate.Simulate(pl.trip, pl.vehicle, sol.Employees, g)
		return false
	}
	sol.MarkRouted(e.ID)
	return true
}

// repairGreedy inserts each removed employee at its overall best
// feasible position, in the order removed (spec.md §4.5 step 6).
func repairGreedy(sol *model.Solution, removed []string, g *geo.Service, p insertion.Params) {
	for _, id := range removed {
		e := sol.Employees[id]
		pl, ok := bestPlacementAcrossFleet(sol, e, g, p)
		if !ok {
			sol.MarkUnrouted(id, "no feasible placement found during repair")
			continue
		}
		if !commitPlacement(sol, e, pl, g) {
			sol.MarkUnrouted(id, "no feasible placement found during repair")
		}
	}
}

// repairRegret2 repeatedly places the employee whose regret-2 value
// (second-best minus best insertion cost, anywhere in the fleet) is
// largest, with employees having only one feasible option anywhere
// treated as +Inf so they're placed first (spec.md §4.5 step 6).
func repairRegret2(sol *model.Solution, removed []string, g *geo.Service, p insertion.Params) {
	pending := make(map[string]bool, len(removed))
	for _, id := range removed {
		pending[id] = true
	}

	for len(pending) > 0 {
		var chosenID string
		var chosenPlacement placement
		chosenFound := false
		bestRegret := math.Inf(-1)

		for id := range pending {
			e := sol.Employees[id]
			pl, ok := bestPlacementAcrossFleet(sol, e, g, p)
			if !ok {
				continue
			}
			regret := regretAcrossFleet(sol, e, g, p)
			if regret > bestRegret {
				bestRegret = regret
				chosenID = id
				chosenPlacement = pl
				chosenFound = true
			}
		}

		if !chosenFound {
			for id := range pending {
				sol.MarkUnrouted(id, "no feasible placement found during repair")
			}
			return
		}

		e := sol.Employees[chosenID]
		if !commitPlacement(sol, e, chosenPlacement, g) {
			sol.MarkUnrouted(chosenID, "no feasible placement found during repair")
		}
		delete(pending, chosenID)
	}
}
