// Package ingest parses the JSON input document described in spec.md §6
// and converts it into the internal/model types the optimiser consumes.
//
// Grounded on the teacher's handler validation style (go-playground
// validator/v10 struct tags consumed via gin's `binding:"..."` in
// internal/{vehicle,driver}/handler.go) — here applied directly with
// validator.Validate since there is no gin request to bind from.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/shuttlefleet/routeopt/pkg/errors"
)

// LocationDoc is the {lat, lng} shape used throughout the input document.
type LocationDoc struct {
	Lat float64 `json:"lat" validate:"required"`
	Lng float64 `json:"lng" validate:"required"`
}

// EmployeeDoc is one value of the input document's "employees" object.
type EmployeeDoc struct {
	Priority          int         `json:"priority"`
	Pickup            LocationDoc `json:"pickup" validate:"required"`
	Drop              LocationDoc `json:"drop" validate:"required"`
	EarliestPickup    string      `json:"earliest_pickup" validate:"required"`
	LatestDrop        string      `json:"latest_drop" validate:"required"`
	VehiclePreference string      `json:"vehicle_preference" validate:"omitempty,oneof=premium normal any"`
	SharingPreference string      `json:"sharing_preference" validate:"omitempty,oneof=single double triple any"`
}

// VehicleDoc is one element of the input document's "vehicles" array.
type VehicleDoc struct {
	VehicleID     string  `json:"vehicle_id" validate:"required"`
	Capacity      int     `json:"capacity" validate:"required,gt=0"`
	CostPerKm     float64 `json:"cost_per_km" validate:"gte=0"`
	AvgSpeedKmph  float64 `json:"avg_speed_kmph"`
	CurrentLat    float64 `json:"current_lat"`
	CurrentLng    float64 `json:"current_lng"`
	AvailableFrom string  `json:"available_from" validate:"required"`
	Category      string  `json:"category" validate:"omitempty,oneof=premium normal any"`
}

// BaselineEntry is one element of the optional "baseline" array.
type BaselineEntry struct {
	EmployeeID   string  `json:"employee_id"`
	BaselineCost float64 `json:"baseline_cost"`
}

// Document is the top-level input document of spec.md §6.
type Document struct {
	Employees map[string]EmployeeDoc `json:"employees" validate:"dive"`
	Vehicles  []VehicleDoc            `json:"vehicles" validate:"dive"`
	Baseline  []BaselineEntry         `json:"baseline,omitempty"`

	raw json.RawMessage
}

var validate = validator.New()

// Parse reads and validates an input document from r.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewInputError("could not read input").WithInternal(err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewInputError("input is not valid JSON").WithInternal(err)
	}
	doc.raw = json.RawMessage(data)

	if err := validate.Struct(&doc); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("input failed validation: %v", err)).WithInternal(err)
	}

	return &doc, nil
}

// Raw returns the exact bytes the document was parsed from, used by
// internal/report to echo the input verbatim in the output document.
func (d *Document) Raw() json.RawMessage {
	return d.raw
}

// parseTimeOfDay accepts either "HH:MM" or a fractional day in [0,1)
// and returns minutes-since-midnight, per spec.md §6.
func parseTimeOfDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		if len(parts) != 2 {
			return 0, fmt.Errorf("malformed time %q", s)
		}
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("malformed time %q: %w", s, err)
		}
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("malformed time %q: %w", s, err)
		}
		return h*60 + m, nil
	}

	frac, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed time %q: %w", s, err)
	}
	if frac < 0 || frac >= 1 {
		return 0, fmt.Errorf("day-fraction time %q out of range [0,1)", s)
	}
	return int(frac*1440 + 0.5), nil
}

// FormatTimeOfDay renders minutes-since-midnight as "HH:MM" (spec.md §6).
func FormatTimeOfDay(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h := (minutes / 60) % 24
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// sortedEmployeeIDs returns the document's employee ids in
// lexicographic order. Go's JSON decoder does not preserve object key
// order, so "the first-loaded employee" (spec.md §6) is resolved
// deterministically as the lexicographically smallest id.
func sortedEmployeeIDs(m map[string]EmployeeDoc) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
