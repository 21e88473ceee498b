// Package report builds and serialises the output document of
// spec.md §6 from a solved model.Solution.
//
// Grounded on the teacher's internal/common/export package for the
// shape of a "build a response struct, then serialise it" pipeline,
// trimmed of its cache/DB plumbing since reporting here is a pure
// in-memory transform run once per CLI invocation.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/shuttlefleet/routeopt/internal/ingest"
	"github.com/shuttlefleet/routeopt/internal/model"
)

// Summary mirrors spec.md §6's "summary" object.
type Summary struct {
	TotalEmployees     int     `json:"total_employees"`
	EmployeesRouted    int     `json:"employees_routed"`
	EmployeesUnrouted  int     `json:"employees_unrouted"`
	TotalBaselineCost  float64 `json:"total_baseline_cost"`
	TotalOptimizedCost float64 `json:"total_optimized_cost"`
	NetSavings         float64 `json:"net_savings"`
	SavingsPercentage  float64 `json:"savings_percentage"`
}

// UnroutedEmployee is one entry of the "unrouted_employees" array.
type UnroutedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// Passenger is one entry of a trip's "passengers" array.
type Passenger struct {
	EmployeeID string `json:"employee_id"`
	PickupTime string `json:"pickup_time"`
	DropTime   string `json:"drop_time"`
}

// Trip mirrors one element of a vehicle's "trips" array.
type Trip struct {
	TripNumber     int         `json:"trip_number"`
	Load           int         `json:"load"`
	CapacityLimit  int         `json:"capacity_limit"`
	StartTime      string      `json:"start_time"`
	EndTime        string      `json:"end_time"`
	TripDistanceKm float64     `json:"trip_distance_km"`
	TripCost       float64     `json:"trip_cost"`
	Route          []string    `json:"route"`
	Passengers     []Passenger `json:"passengers"`
}

// Vehicle mirrors one element of the "vehicles" array.
type Vehicle struct {
	VehicleID string  `json:"vehicle_id"`
	TotalCost float64 `json:"total_cost"`
	Trips     []Trip  `json:"trips"`
}

// Output is the full output document of spec.md §6.
type Output struct {
	Input             json.RawMessage    `json:"input"`
	Summary           Summary            `json:"summary"`
	UnroutedEmployees []UnroutedEmployee `json:"unrouted_employees"`
	Vehicles          []Vehicle          `json:"vehicles"`
}

// BuildOutput assembles an Output document from a solved solution and
// the raw input bytes it was solved from.
func BuildOutput(sol *model.Solution, rawInput json.RawMessage) *Output {
	out := &Output{
		Input:             rawInput,
		UnroutedEmployees: buildUnrouted(sol),
		Vehicles:          buildVehicles(sol),
	}
	out.Summary = buildSummary(sol)
	return out
}

func buildSummary(sol *model.Solution) Summary {
	total := len(sol.Employees)
	routed := 0
	var baseline float64
	for _, e := range sol.Employees {
		if e.IsRouted {
			routed++
		}
		baseline += e.BaselineCost
	}
	optimized := sol.TotalCost()
	savings := baseline - optimized
	pct := 0.0
	if baseline > 0 {
		pct = savings / baseline * 100
	}
	return Summary{
		TotalEmployees:     total,
		EmployeesRouted:    routed,
		EmployeesUnrouted:  total - routed,
		TotalBaselineCost:  baseline,
		TotalOptimizedCost: optimized,
		NetSavings:         savings,
		SavingsPercentage:  pct,
	}
}

func buildUnrouted(sol *model.Solution) []UnroutedEmployee {
	ids := make([]string, 0, len(sol.Unrouted))
	for id := range sol.Unrouted {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]UnroutedEmployee, 0, len(ids))
	for _, id := range ids {
		out = append(out, UnroutedEmployee{EmployeeID: id, Reason: sol.Unrouted[id]})
	}
	return out
}

func buildVehicles(sol *model.Solution) []Vehicle {
	out := make([]Vehicle, 0, len(sol.Vehicles))
	for _, v := range sol.Vehicles {
		out = append(out, Vehicle{
			VehicleID: v.ID,
			TotalCost: v.TotalCost,
			Trips:     buildTrips(v),
		})
	}
	return out
}

func buildTrips(v *model.Vehicle) []Trip {
	trips := make([]Trip, 0, len(v.Trips))
	for i, t := range v.Trips {
		trips = append(trips, Trip{
			TripNumber:     i + 1,
			Load:           t.CurrentCapacity,
			CapacityLimit:  t.MaxCapacity,
			StartTime:      ingest.FormatTimeOfDay(t.Stops[0].DepartureTime),
			EndTime:        ingest.FormatTimeOfDay(t.Stops[len(t.Stops)-1].ArrivalTime),
			TripDistanceKm: t.TotalDistanceKm,
			TripCost:       t.TotalCost,
			Route:          routeIDs(t),
			Passengers:     passengers(t),
		})
	}
	return trips
}

func routeIDs(t *model.Trip) []string {
	ids := make([]string, 0, len(t.Stops))
	for _, s := range t.Stops {
		ids = append(ids, s.EmployeeID)
	}
	return ids
}

func passengers(t *model.Trip) []Passenger {
	out := make([]Passenger, 0, t.CurrentCapacity)
	for _, s := range t.Stops {
		if !s.IsPickup {
			continue
		}
		out = append(out, Passenger{
			EmployeeID: s.EmployeeID,
			PickupTime: ingest.FormatTimeOfDay(s.BeginService),
			DropTime:   ingest.FormatTimeOfDay(lastStop(t).ArrivalTime),
		})
	}
	return out
}

func lastStop(t *model.Trip) model.Stop {
	return t.Stops[len(t.Stops)-1]
}

// WriteJSON serialises out as indented JSON to w.
func WriteJSON(w io.Writer, out *Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteText renders a human-readable summary of out to w, one line per
// vehicle trip plus the headline numbers (cmd/router writes it to
// stderr under --debug).
func WriteText(w io.Writer, out *Output) error {
	lines := []string{
		fmt.Sprintf("employees: %d routed, %d unrouted (of %d)",
			out.Summary.EmployeesRouted, out.Summary.EmployeesUnrouted, out.Summary.TotalEmployees),
		fmt.Sprintf("cost: baseline=%.2f optimized=%.2f savings=%.2f (%.1f%%)",
			out.Summary.TotalBaselineCost, out.Summary.TotalOptimizedCost,
			out.Summary.NetSavings, out.Summary.SavingsPercentage),
	}
	for _, ue := range out.UnroutedEmployees {
		lines = append(lines, fmt.Sprintf("unrouted: %s (%s)", ue.EmployeeID, ue.Reason))
	}
	for _, v := range out.Vehicles {
		for _, t := range v.Trips {
			lines = append(lines, fmt.Sprintf("vehicle %s trip %d: %v %s-%s load=%d/%d dist=%.2fkm cost=%.2f",
				v.VehicleID, t.TripNumber, t.Route, t.StartTime, t.EndTime, t.Load, t.CapacityLimit,
				t.TripDistanceKm, t.TripCost))
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
