package construct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/insertion"
	"github.com/shuttlefleet/routeopt/internal/model"
)

func office() model.Location { return model.Location{Lat: 12.98, Lng: 77.60} }

func TestBuild_TrivialScenario(t *testing.T) {
	sol := model.NewSolution(office())
	pickup := model.Location{Lat: 12.97, Lng: 77.59}
	sol.Employees["E1"] = &model.Employee{ID: "E1", Pickup: pickup, Drop: office(), ReadyTime: 480, DueTime: 600}
	sol.Vehicles = []*model.Vehicle{
		{ID: "V1", Capacity: 4, CostPerKm: 10, SpeedKmh: 30, DepotLoc: pickup, AvailableFrom: 480, Category: model.CategoryAny},
	}

	Build(sol, geo.NewService(), insertion.DefaultParams())

	assert.True(t, sol.Employees["E1"].IsRouted)
	assert.Empty(t, sol.Unrouted)
	assert.Len(t, sol.Vehicles[0].Trips, 1)
	assert.Greater(t, sol.Vehicles[0].TotalCost, 0.0)
}

func TestBuild_ZeroEmployees(t *testing.T) {
	sol := model.NewSolution(office())
	sol.Vehicles = []*model.Vehicle{
		{ID: "V1", Capacity: 4, CostPerKm: 10, SpeedKmh: 30, DepotLoc: office(), AvailableFrom: 480, Category: model.CategoryAny},
	}

	Build(sol, geo.NewService(), insertion.DefaultParams())

	require.Len(t, sol.Vehicles[0].Trips, 1)
	assert.Equal(t, 0, sol.Vehicles[0].Trips[0].CurrentCapacity)
	assert.Equal(t, 0.0, sol.TotalCost())
	assert.Empty(t, sol.Unrouted)
}

func TestBuild_ZeroVehiclesLeavesEveryoneUnrouted(t *testing.T) {
	sol := model.NewSolution(office())
	sol.Employees["E1"] = &model.Employee{ID: "E1", Pickup: office(), Drop: office(), ReadyTime: 480, DueTime: 600}

	Build(sol, geo.NewService(), insertion.DefaultParams())

	assert.False(t, sol.Employees["E1"].IsRouted)
	require.Contains(t, sol.Unrouted, "E1")
}

func TestBuild_CategoryMismatchUnrouted(t *testing.T) {
	sol := model.NewSolution(office())
	pickup := model.Location{Lat: 12.97, Lng: 77.59}
	sol.Employees["E1"] = &model.Employee{ID: "E1", Pickup: pickup, Drop: office(), ReadyTime: 480, DueTime: 600, VehiclePref: model.CategoryPremium}
	sol.Vehicles = []*model.Vehicle{
		{ID: "V1", Capacity: 4, CostPerKm: 10, SpeedKmh: 30, DepotLoc: pickup, AvailableFrom: 480, Category: model.CategoryNormal},
	}

	Build(sol, geo.NewService(), insertion.DefaultParams())

	assert.False(t, sol.Employees["E1"].IsRouted)
	assert.Contains(t, sol.Unrouted["E1"], "category")
}

func TestBuild_MultiTripChaining(t *testing.T) {
	sol := model.NewSolution(office())
	p1 := model.Location{Lat: 12.97, Lng: 77.59}
	p2 := model.Location{Lat: 13.20, Lng: 77.90} // far enough that windows can't overlap

	sol.Employees["E1"] = &model.Employee{ID: "E1", Pickup: p1, Drop: office(), ReadyTime: 480, DueTime: 520}
	sol.Employees["E2"] = &model.Employee{ID: "E2", Pickup: p2, Drop: office(), ReadyTime: 800, DueTime: 900}
	sol.Vehicles = []*model.Vehicle{
		{ID: "V1", Capacity: 4, CostPerKm: 10, SpeedKmh: 30, DepotLoc: p1, AvailableFrom: 480, Category: model.CategoryAny},
	}

	Build(sol, geo.NewService(), insertion.DefaultParams())

	v := sol.Vehicles[0]
	if len(v.Trips) == 2 {
		assert.GreaterOrEqual(t, v.Trips[1].StartTime(), v.Trips[0].EndTime())
		assert.True(t, office().Equal(v.Trips[1].Stops[0].Loc))
	}
}

func TestBuild_AllUnroutedWhenDueBeforeAvailable(t *testing.T) {
	sol := model.NewSolution(office())
	pickup := model.Location{Lat: 12.97, Lng: 77.59}
	sol.Employees["E1"] = &model.Employee{ID: "E1", Pickup: pickup, Drop: office(), ReadyTime: 400, DueTime: 420}
	sol.Employees["E2"] = &model.Employee{ID: "E2", Pickup: pickup, Drop: office(), ReadyTime: 400, DueTime: 420}
	sol.Vehicles = []*model.Vehicle{
		{ID: "V1", Capacity: 4, CostPerKm: 10, SpeedKmh: 30, DepotLoc: pickup, AvailableFrom: 480, Category: model.CategoryAny},
	}

	Build(sol, geo.NewService(), insertion.DefaultParams())

	assert.False(t, sol.Employees["E1"].IsRouted)
	assert.False(t, sol.Employees["E2"].IsRouted)
	assert.Len(t, sol.Unrouted, 2)
}
