package insertion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/model"
	"github.com/shuttlefleet/routeopt/internal/simulate"
)

func baseVehicle() *model.Vehicle {
	office := model.Location{Lat: 12.98, Lng: 77.60}
	return &model.Vehicle{ID: "V1", Capacity: 4, CostPerKm: 10, SpeedKmh: 30, DepotLoc: office, AvailableFrom: 480, Category: model.CategoryAny}
}

func TestBest_SingleEmployeeFeasible(t *testing.T) {
	office := model.Location{Lat: 12.98, Lng: 77.60}
	v := baseVehicle()
	trip := model.NewTrip(office, office, 480, 4)

	e := &model.Employee{ID: "E1", Pickup: model.Location{Lat: 12.97, Lng: 77.59}, Drop: office, ReadyTime: 480, DueTime: 600}
	employees := map[string]*model.Employee{"E1": e}
	g := geo.NewService()

	res, ok := Best(trip, e, v, employees, g, DefaultParams())
	require.True(t, ok)
	assert.Equal(t, 1, res.Position)
}

func TestBest_InfeasibleDueTimeReturnsFalse(t *testing.T) {
	office := model.Location{Lat: 12.98, Lng: 77.60}
	v := baseVehicle()
	trip := model.NewTrip(office, office, 480, 4)

	e := &model.Employee{ID: "E1", Pickup: model.Location{Lat: 13.50, Lng: 78.50}, Drop: office, ReadyTime: 480, DueTime: 481}
	employees := map[string]*model.Employee{"E1": e}
	g := geo.NewService()

	_, ok := Best(trip, e, v, employees, g, DefaultParams())
	assert.False(t, ok)
}

func TestBest_IncompatibleCategoryReturnsFalse(t *testing.T) {
	office := model.Location{Lat: 12.98, Lng: 77.60}
	v := baseVehicle()
	v.Category = model.CategoryNormal
	trip := model.NewTrip(office, office, 480, 4)

	e := &model.Employee{ID: "E1", Pickup: model.Location{Lat: 12.97, Lng: 77.59}, Drop: office, ReadyTime: 480, DueTime: 600, VehiclePref: model.CategoryPremium}
	employees := map[string]*model.Employee{"E1": e}
	g := geo.NewService()

	_, ok := Best(trip, e, v, employees, g, DefaultParams())
	assert.False(t, ok)
}

func TestRegret2_SinglePositionIsInfinite(t *testing.T) {
	office := model.Location{Lat: 12.98, Lng: 77.60}
	v := baseVehicle()
	trip := model.NewTrip(office, office, 480, 4)

	e := &model.Employee{ID: "E1", Pickup: model.Location{Lat: 12.97, Lng: 77.59}, Drop: office, ReadyTime: 480, DueTime: 600}
	employees := map[string]*model.Employee{"E1": e}
	g := geo.NewService()

	got := Regret2(trip, e, v, employees, g, DefaultParams())
	assert.True(t, math.IsInf(got, 1))
}

func TestRegret2_TwoFeasiblePositionsIsFinite(t *testing.T) {
	office := model.Location{Lat: 12.98, Lng: 77.60}
	v := baseVehicle()
	trip := model.NewTrip(office, office, 480, 4)
	employees := map[string]*model.Employee{
		"E1": {ID: "E1", Pickup: model.Location{Lat: 12.975, Lng: 77.595}, Drop: office, ReadyTime: 480, DueTime: 700},
	}
	g := geo.NewService()
	trip.InsertAt(1, "E1", employees["E1"].Pickup)
	ok, err := simulate.Simulate(trip, v, employees, g)
	require.NoError(t, err)
	require.True(t, ok)

	e2 := &model.Employee{ID: "E2", Pickup: model.Location{Lat: 12.976, Lng: 77.596}, Drop: office, ReadyTime: 480, DueTime: 700}
	employees["E2"] = e2

	got := Regret2(trip, e2, v, employees, g, DefaultParams())
	assert.False(t, math.IsInf(got, 0))
	assert.GreaterOrEqual(t, got, 0.0)
}
