package asset

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	apperrors "github.com/sf-parking-zones/internal/pkg/errors"
)

const assetJSON = `{
  "version": "20250304",
  "generatedAt": "2025-03-04T03:00:00Z",
  "city": {"code": "sf", "name": "San Francisco", "state": "CA",
           "bounds": {"north": 37.8324, "south": 37.6398, "east": -122.3281, "west": -122.5274}},
  "permitAreas": [{"code": "A", "name": "Area A", "neighborhoods": ["Telegraph Hill", "North Beach"]}],
  "zones": [
    {"id": "sf_rpp_a_001", "cityCode": "sf", "displayName": "Area A", "zoneType": "rpp",
     "permitArea": "A", "validPermitAreas": ["A"], "requiresPermit": true, "restrictiveness": 8,
     "boundary": [
       {"latitude": 37.800, "longitude": -122.410},
       {"latitude": 37.800, "longitude": -122.400},
       {"latitude": 37.806, "longitude": -122.400},
       {"latitude": 37.806, "longitude": -122.410},
       {"latitude": 37.800, "longitude": -122.410}
     ],
     "rules": [{"id": "a_rule_001", "ruleType": "permit_required",
                "enforcementDays": ["monday","tuesday","wednesday","thursday","friday","saturday"],
                "enforcementStartTime": {"hour": 8, "minute": 0},
                "enforcementEndTime": {"hour": 18, "minute": 0},
                "timeLimit": 120, "meterRate": null}]},
    {"id": "sf_meter_001", "cityCode": "sf", "zoneType": "metered", "requiresPermit": false,
     "restrictiveness": 9,
     "boundaries": [[
       {"latitude": 37.802, "longitude": -122.406},
       {"latitude": 37.802, "longitude": -122.404},
       {"latitude": 37.804, "longitude": -122.404},
       {"latitude": 37.804, "longitude": -122.406},
       {"latitude": 37.802, "longitude": -122.406}
     ]],
     "rules": []}
  ]
}`

func writeAsset(t *testing.T, name string, gz bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := []byte(assetJSON)
	if gz {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		data = buf.Bytes()
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadDataset_PlainAndGzip(t *testing.T) {
	for _, gz := range []bool{false, true} {
		ds, err := LoadDataset(writeAsset(t, "zones.json", gz))
		require.NoError(t, err)

		assert.Equal(t, "20250304", ds.Version)
		require.Len(t, ds.Zones, 2)
		assert.Len(t, ds.Zones[0].Boundaries, 1, "legacy boundary field")
		assert.Equal(t, 120, *ds.Zones[0].Rules[0].TimeLimitMinutes)
	}
}

func TestNewZoneRepositoryFromFile_MissingFile(t *testing.T) {
	_, err := NewZoneRepositoryFromFile(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataLoadFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestZoneRepository_FindByPoint(t *testing.T) {
	repo, err := NewZoneRepositoryFromFile(writeAsset(t, "zones.json", false), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	both, err := repo.FindByPoint(ctx, domain.Coordinate{Latitude: 37.803, Longitude: -122.405})
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, "sf_meter_001", both[0].ID, "most restrictive first")

	one, err := repo.FindByPoint(ctx, domain.Coordinate{Latitude: 37.801, Longitude: -122.409})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "sf_rpp_a_001", one[0].ID)

	none, err := repo.FindByPoint(ctx, domain.Coordinate{Latitude: 37.75, Longitude: -122.45})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestZoneRepository_Lookups(t *testing.T) {
	ds := &domain.Dataset{Zones: []domain.ParkingZone{{ID: "z1"}}}
	repo := NewZoneRepository(ds, zap.NewNop())
	ctx := context.Background()

	z, err := repo.ByID(ctx, "z1")
	require.NoError(t, err)
	require.NotNil(t, z)

	missing, err := repo.ByID(ctx, "z2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	city, err := repo.City(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SFBounds, city.Bounds, "zero bounds default to SF")
}

func TestDecodeDataset_Garbage(t *testing.T) {
	_, err := DecodeDataset(bytes.NewReader([]byte("not json")))
	assert.Error(t, err)

	var ds domain.Dataset
	assert.NoError(t, json.Unmarshal([]byte(assetJSON), &ds))
}
