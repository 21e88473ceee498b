package alns

import (
	"math/rand"
	"sort"

	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/model"
	"github.com/shuttlefleet/routeopt/internal/simulate"
)

// destroy removes up to q employees from sol (a trial solution already
// owned by the caller), chosen by the operator named op. It returns the
// ids removed.
func destroy(op int, sol *model.Solution, q int, rng *rand.Rand, g *geo.Service) []string {
	routed := sol.RoutedEmployeeIDs()
	if len(routed) == 0 {
		return nil
	}
	if q > len(routed) {
		q = len(routed)
	}

	var chosen []string
	switch op {
	case opRandom:
		chosen = randomRemoval(routed, q, rng)
	case opShaw:
		chosen = shawRemoval(sol, routed, q, rng)
	case opWorst:
		chosen = worstRemoval(sol, routed, q, g)
	default:
		chosen = randomRemoval(routed, q, rng)
	}

	for _, id := range chosen {
		removeFromRoute(sol, id, g)
	}
	return chosen
}

// removeFromRoute erases id's pickup stop from whichever trip carries it,
// re-simulates that trip, and marks id unrouted with a neutral reason
// (repair will either clear it or leave a more specific one).
func removeFromRoute(sol *model.Solution, id string, g *geo.Service) {
	vi, ti := sol.EmployeeTripLocation(id)
	if vi < 0 {
		return
	}
	v := sol.Vehicles[vi]
	trip := v.Trips[ti]
	trip.RemoveEmployee(id)
	_, _ = simulate.Simulate(trip, v, sol.Employees, g)
	sol.MarkUnrouted(id, "removed by ALNS destroy operator")
}

// randomRemoval shuffles the routed set and takes the first q.
func randomRemoval(routed []string, q int, rng *rand.Rand) []string {
	shuffled := make([]string, len(routed))
	copy(shuffled, routed)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:q]
}

// shawRemoval picks a random seed, ranks every routed employee by
// similarity (|Δready| + |Δdue|) to it, and takes the q most similar.
func shawRemoval(sol *model.Solution, routed []string, q int, rng *rand.Rand) []string {
	seedID := routed[rng.Intn(len(routed))]
	seed := sol.Employees[seedID]

	type scored struct {
		id   string
		dist int
	}
	ranked := make([]scored, 0, len(routed))
	for _, id := range routed {
		e := sol.Employees[id]
		d := abs(e.ReadyTime-seed.ReadyTime) + abs(e.DueTime-seed.DueTime)
		ranked = append(ranked, scored{id: id, dist: d})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].id < ranked[j].id
	})

	out := make([]string, 0, q)
	for i := 0; i < q && i < len(ranked); i++ {
		out = append(out, ranked[i].id)
	}
	return out
}

// worstRemoval evaluates, for each routed employee, the cost reduction
// from removing it (on a local copy, with re-simulation) and keeps the q
// with the largest gain. O(n^2) in pickup count, per spec.md §9 — gated
// by the caller's q.
func worstRemoval(sol *model.Solution, routed []string, q int, g *geo.Service) []string {
	type scored struct {
		id   string
		gain float64
	}
	ranked := make([]scored, 0, len(routed))
	for _, id := range routed {
		ranked = append(ranked, scored{id: id, gain: removalGain(sol, id, g)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].gain != ranked[j].gain {
			return ranked[i].gain > ranked[j].gain
		}
		return ranked[i].id < ranked[j].id
	})

	out := make([]string, 0, q)
	for i := 0; i < q && i < len(ranked); i++ {
		out = append(out, ranked[i].id)
	}
	return out
}

// removalGain is the drop in the carrying trip's cost if id were removed,
// evaluated on a disposable clone of just that trip.
func removalGain(sol *model.Solution, id string, g *geo.Service) float64 {
	vi, ti := sol.EmployeeTripLocation(id)
	if vi < 0 {
		return 0
	}
	v := sol.Vehicles[vi]
	trip := v.Trips[ti]
	before := trip.TotalCost

	trial := trip.Clone()
	trial.RemoveEmployee(id)
	if ok, err := simulate.Simulate(trial, v, sol.Employees, g); err != nil || !ok {
		return 0
	}
	return before - trial.TotalCost
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
