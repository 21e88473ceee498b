package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "employees": {
    "E1": {
      "priority": 1,
      "pickup": {"lat": 12.97, "lng": 77.59},
      "drop": {"lat": 12.98, "lng": 77.60},
      "earliest_pickup": "08:00",
      "latest_drop": "10:00",
      "vehicle_preference": "any",
      "sharing_preference": "any"
    },
    "E2": {
      "priority": 1,
      "pickup": {"lat": 12.95, "lng": 77.55},
      "drop": {"lat": 12.98, "lng": 77.60},
      "earliest_pickup": "0.34",
      "latest_drop": "10:30"
    }
  },
  "vehicles": [
    {"vehicle_id": "V1", "capacity": 4, "cost_per_km": 10, "avg_speed_kmph": 30,
     "current_lat": 12.97, "current_lng": 77.59, "available_from": "08:00", "category": "normal"}
  ],
  "baseline": [{"employee_id": "E1", "baseline_cost": 120.5}]
}`

func TestParse_ValidDocument(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	assert.Len(t, doc.Employees, 2)
	assert.Len(t, doc.Vehicles, 1)
	assert.NotEmpty(t, doc.Raw())
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse(strings.NewReader(`{not json`))
	assert.Error(t, err)
}

func TestParse_RejectsUnknownVehicleCategory(t *testing.T) {
	_, err := Parse(strings.NewReader(`{
		"employees": {},
		"vehicles": [{"vehicle_id": "V1", "capacity": 4, "available_from": "08:00", "category": "luxury"}]
	}`))
	assert.Error(t, err)
}

func TestParse_RejectsUnknownSharingPreference(t *testing.T) {
	_, err := Parse(strings.NewReader(`{
		"employees": {
			"E1": {
				"pickup": {"lat": 12.97, "lng": 77.59},
				"drop": {"lat": 12.98, "lng": 77.60},
				"earliest_pickup": "08:00",
				"latest_drop": "10:00",
				"sharing_preference": "quad"
			}
		},
		"vehicles": []
	}`))
	assert.Error(t, err)
}

func TestToSolution_OfficeFromLexicographicallyFirstEmployee(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	sol, err := doc.ToSolution()
	require.NoError(t, err)

	assert.Equal(t, 12.98, sol.Office.Lat)
	assert.Equal(t, 77.60, sol.Office.Lng)
}

func TestToSolution_ParsesDayFractionTime(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	sol, err := doc.ToSolution()
	require.NoError(t, err)

	assert.Equal(t, int(0.34*1440+0.5), sol.Employees["E2"].ReadyTime)
}

func TestToSolution_BaselineCostApplied(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	sol, err := doc.ToSolution()
	require.NoError(t, err)

	assert.Equal(t, 120.5, sol.Employees["E1"].BaselineCost)
	assert.Equal(t, 0.0, sol.Employees["E2"].BaselineCost)
}

func TestToSolution_EveryEmployeeStartsUnrouted(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	sol, err := doc.ToSolution()
	require.NoError(t, err)

	assert.Len(t, sol.Unrouted, 2)
	assert.False(t, sol.Employees["E1"].IsRouted)
}

func TestToSolution_VehicleDefaultSpeedApplied(t *testing.T) {
	doc, err := Parse(strings.NewReader(`{
		"employees": {},
		"vehicles": [{"vehicle_id": "V1", "capacity": 4, "available_from": "08:00"}]
	}`))
	require.NoError(t, err)

	sol, err := doc.ToSolution()
	require.NoError(t, err)

	assert.Equal(t, defaultAvgSpeedKmph, sol.Vehicles[0].SpeedKmh)
}

func TestFormatTimeOfDay(t *testing.T) {
	assert.Equal(t, "08:00", FormatTimeOfDay(480))
	assert.Equal(t, "00:00", FormatTimeOfDay(0))
	assert.Equal(t, "23:59", FormatTimeOfDay(1439))
}

func TestParseTimeOfDay_RejectsGarbage(t *testing.T) {
	_, err := parseTimeOfDay("not-a-time")
	assert.Error(t, err)
}
