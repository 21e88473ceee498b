package ingest

import (
	"github.com/shuttlefleet/routeopt/internal/model"
)

const defaultAvgSpeedKmph = 30.0

// ToSolution converts a parsed Document into an empty-of-trips
// model.Solution (no vehicle has any trips yet — construct.Build opens
// the first one). OFFICE is set from the lexicographically smallest
// employee id's drop location (see sortedEmployeeIDs). Each employee's
// BaselineCost is populated from the document's optional "baseline"
// array, for internal/report's savings calculation.
func (d *Document) ToSolution() (*model.Solution, error) {
	ids := sortedEmployeeIDs(d.Employees)

	var office model.Location
	if len(ids) > 0 {
		first := d.Employees[ids[0]]
		office = model.Location{Lat: first.Drop.Lat, Lng: first.Drop.Lng}
	}

	sol := model.NewSolution(office)

	for _, id := range ids {
		ed := d.Employees[id]
		ready, err := parseTimeOfDay(ed.EarliestPickup)
		if err != nil {
			return nil, err
		}
		due, err := parseTimeOfDay(ed.LatestDrop)
		if err != nil {
			return nil, err
		}
		sol.Employees[id] = &model.Employee{
			ID:          id,
			Priority:    ed.Priority,
			Pickup:      model.Location{Lat: ed.Pickup.Lat, Lng: ed.Pickup.Lng},
			Drop:        model.Location{Lat: ed.Drop.Lat, Lng: ed.Drop.Lng},
			ReadyTime:   ready,
			DueTime:     due,
			VehiclePref: model.ParseVehicleCategory(ed.VehiclePreference),
			SharingPref: model.ParseSharingPreference(ed.SharingPreference),
		}
	}

	for _, bd := range d.Baseline {
		if e, ok := sol.Employees[bd.EmployeeID]; ok {
			e.BaselineCost = bd.BaselineCost
		}
	}

	sol.Vehicles = make([]*model.Vehicle, 0, len(d.Vehicles))
	for _, vd := range d.Vehicles {
		speed := vd.AvgSpeedKmph
		if speed <= 0 {
			speed = defaultAvgSpeedKmph
		}
		v := &model.Vehicle{
			ID:         vd.VehicleID,
			Capacity:   vd.Capacity,
			CostPerKm:  vd.CostPerKm,
			SpeedKmh:   speed,
			DepotLoc:   model.Location{Lat: vd.CurrentLat, Lng: vd.CurrentLng},
			Category:   model.ParseVehicleCategory(vd.Category),
			CurrentLoc: model.Location{Lat: vd.CurrentLat, Lng: vd.CurrentLng},
		}
		avail, err := parseTimeOfDay(vd.AvailableFrom)
		if err != nil {
			return nil, err
		}
		v.AvailableFrom = avail
		v.AvailableTime = avail
		sol.Vehicles = append(sol.Vehicles, v)
	}

	for id := range sol.Employees {
		sol.MarkUnrouted(id, "not yet routed")
	}

	return sol, nil
}
