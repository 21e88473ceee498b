package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/model"
)

func trivialScenario() (*model.Trip, *model.Vehicle, map[string]*model.Employee) {
	pickup := model.Location{Lat: 12.97, Lng: 77.59}
	office := model.Location{Lat: 12.98, Lng: 77.60}

	e := &model.Employee{ID: "E1", Pickup: pickup, Drop: office, ReadyTime: 480, DueTime: 600}
	v := &model.Vehicle{ID: "V1", Capacity: 4, CostPerKm: 10, SpeedKmh: 30, DepotLoc: pickup, AvailableFrom: 480, Category: model.CategoryAny}

	trip := model.NewTrip(pickup, office, 480, 4)
	trip.InsertAt(1, "E1", pickup)

	return trip, v, map[string]*model.Employee{"E1": e}
}

func TestSimulate_Trivial(t *testing.T) {
	trip, v, employees := trivialScenario()
	g := geo.NewService()

	ok, err := Simulate(trip, v, employees, g)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, model.StopStart, trip.Stops[0].EmployeeID)
	assert.Equal(t, model.StopEnd, trip.Stops[2].EmployeeID)
	assert.Equal(t, 1, trip.CurrentCapacity)
	assert.Greater(t, trip.TotalCost, 0.0)
	// Pickup is at the depot: zero wait, boarding starts immediately.
	assert.Equal(t, 480, trip.Stops[1].BeginService)
}

func TestSimulate_IdempotentReSimulation(t *testing.T) {
	trip, v, employees := trivialScenario()
	g := geo.NewService()

	ok, err := Simulate(trip, v, employees, g)
	require.NoError(t, err)
	require.True(t, ok)

	wantDist := trip.TotalDistanceKm
	wantCost := trip.TotalCost
	wantCap := trip.CurrentCapacity

	ok, err = Simulate(trip, v, employees, g)
	require.NoError(t, err)
	require.True(t, ok)

	assert.InDelta(t, wantDist, trip.TotalDistanceKm, 1e-9)
	assert.InDelta(t, wantCost, trip.TotalCost, 1e-9)
	assert.Equal(t, wantCap, trip.CurrentCapacity)
}

func TestSimulate_RejectsLateDueTime(t *testing.T) {
	trip, v, employees := trivialScenario()
	employees["E1"].DueTime = 479 // arrival will exceed this
	g := geo.NewService()

	ok, err := Simulate(trip, v, employees, g)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimulate_RejectsUnknownEmployee(t *testing.T) {
	trip, v, employees := trivialScenario()
	delete(employees, "E1")
	g := geo.NewService()

	_, err := Simulate(trip, v, employees, g)
	assert.Error(t, err)
}

func TestSimulate_RejectsMissingEndSentinel(t *testing.T) {
	trip, v, employees := trivialScenario()
	trip.Stops = trip.Stops[:2] // drop END
	g := geo.NewService()

	ok, err := Simulate(trip, v, employees, g)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimulate_ZeroSpeedMakesEveryTripInfeasible(t *testing.T) {
	trip, v, employees := trivialScenario()
	v.SpeedKmh = 0
	g := geo.NewService()

	ok, err := Simulate(trip, v, employees, g)
	require.NoError(t, err)
	assert.False(t, ok, "infinite travel time must push arrival past any due time")
}

func TestCompatible_PremiumPreferenceRejectsNormalVehicle(t *testing.T) {
	e := &model.Employee{VehiclePref: model.CategoryPremium}
	v := &model.Vehicle{Category: model.CategoryNormal, Capacity: 4}
	trip := &model.Trip{MaxCapacity: 4}

	assert.False(t, Compatible(e, v, trip, false))
}

func TestCompatible_CapacityLimit(t *testing.T) {
	e := &model.Employee{VehiclePref: model.CategoryAny}
	v := &model.Vehicle{Category: model.CategoryAny, Capacity: 2}
	trip := &model.Trip{MaxCapacity: 2, CurrentCapacity: 2}

	assert.False(t, Compatible(e, v, trip, false))
}

func TestCompatible_SharingCapRestrictsWhenEnabled(t *testing.T) {
	e := &model.Employee{VehiclePref: model.CategoryAny, SharingPref: model.SharingSingle}
	v := &model.Vehicle{Category: model.CategoryAny, Capacity: 4}
	trip := &model.Trip{MaxCapacity: 4, CurrentCapacity: 1}

	assert.False(t, Compatible(e, v, trip, true), "single-share cap of 1 already met")
	assert.True(t, Compatible(e, v, trip, false), "sharing caps disabled by default")
}
