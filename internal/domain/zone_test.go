package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParkingZone_UnmarshalLegacyBoundary(t *testing.T) {
	payload := `{
		"id": "sf_rpp_a_001",
		"zoneType": "rpp",
		"permitArea": "A",
		"requiresPermit": true,
		"boundary": [
			{"latitude": 37.80, "longitude": -122.41},
			{"latitude": 37.80, "longitude": -122.40},
			{"latitude": 37.79, "longitude": -122.40}
		],
		"rules": [{
			"id": "a_rule_001",
			"ruleType": "permit_required",
			"enforcementDays": ["monday", "tuesday"],
			"enforcementStartTime": {"hour": 8, "minute": 0},
			"enforcementEndTime": "18:00",
			"timeLimit": 120
		}]
	}`

	var zone ParkingZone
	require.NoError(t, json.Unmarshal([]byte(payload), &zone))

	require.Len(t, zone.Boundaries, 1)
	assert.Len(t, zone.Boundaries[0], 3)
	require.Len(t, zone.Rules, 1)
	assert.Equal(t, NewDaySet(time.Monday, time.Tuesday), zone.Rules[0].EnforcementDays)
	assert.Equal(t, 18, zone.Rules[0].EnforcementEnd.Hour)
	assert.Equal(t, 2*time.Hour, zone.Rules[0].TimeLimit())
	assert.Equal(t, "Area A", zone.Name())
}

func TestParkingZone_AcceptsPermit(t *testing.T) {
	zone := ParkingZone{PermitArea: "Q", ValidPermitAreas: []string{"Q", "S"}}

	assert.True(t, zone.AcceptsPermit(ParkingPermit{Type: PermitTypeResidential, Area: "q"}))
	assert.True(t, zone.AcceptsPermit(ParkingPermit{Type: PermitTypeResidential, Area: "S"}))
	assert.False(t, zone.AcceptsPermit(ParkingPermit{Type: PermitTypeResidential, Area: "A"}))
	assert.False(t, zone.AcceptsPermit(ParkingPermit{Type: PermitTypeCommercial, Area: "Q"}))
}

func TestParkingZone_CloneIsIndependent(t *testing.T) {
	zone := ParkingZone{
		ID:         "z",
		Boundaries: []Ring{{{Latitude: 1, Longitude: 1}}},
		Rules:      []ParkingRule{{ID: "r"}},
	}

	clone := zone.Clone()
	zone.Boundaries[0][0].Latitude = 5
	zone.Rules[0].ID = "changed"

	assert.Equal(t, 1.0, clone.Boundaries[0][0].Latitude)
	assert.Equal(t, "r", clone.Rules[0].ID)
}

func TestBoundingBox_Extend(t *testing.T) {
	var b BoundingBox
	b = b.Extend(Coordinate{Latitude: 37.7, Longitude: -122.4})
	b = b.Extend(Coordinate{Latitude: 37.8, Longitude: -122.5})

	assert.True(t, b.Contains(Coordinate{Latitude: 37.75, Longitude: -122.45}))
	assert.False(t, b.Contains(Coordinate{Latitude: 37.9, Longitude: -122.45}))
}

func TestParkingSession_StatusAt(t *testing.T) {
	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	deadline := start.Add(2 * time.Hour)
	s := ParkingSession{StartTime: start, Deadline: &deadline, Status: SessionStatusActive}

	assert.Equal(t, SessionStatusActive, s.StatusAt(start.Add(time.Hour)))
	assert.Equal(t, time.Hour, s.Remaining(start.Add(time.Hour)))
	assert.Equal(t, SessionStatusExpired, s.StatusAt(deadline))
	assert.Equal(t, time.Duration(0), s.Remaining(deadline.Add(time.Minute)))

	s.Status = SessionStatusEnded
	assert.Equal(t, SessionStatusEnded, s.StatusAt(start))
}

func TestParkingZone_Contains(t *testing.T) {
	square := Ring{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 1, Longitude: 1},
		{Latitude: 1, Longitude: 0},
		{Latitude: 0, Longitude: 0},
	}
	far := Ring{
		{Latitude: 5, Longitude: 5},
		{Latitude: 5, Longitude: 6},
		{Latitude: 6, Longitude: 6},
	}
	zone := ParkingZone{Boundaries: []Ring{far, square}}

	assert.True(t, zone.Contains(Coordinate{Latitude: 0.5, Longitude: 0.5}))
	assert.False(t, zone.Contains(Coordinate{Latitude: 2, Longitude: 0.5}))
	assert.False(t, Ring{{Latitude: 0, Longitude: 0}}.Contains(Coordinate{}))
}

func TestIsKnownPermitArea(t *testing.T) {
	for _, code := range []string{"A", "q", "Z", "AA", "ll", " S "} {
		assert.True(t, IsKnownPermitArea(code), code)
	}
	for _, code := range []string{"", "MM", "AB", "AAA", "1"} {
		assert.False(t, IsKnownPermitArea(code), code)
	}
}
