package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/repository/asset"
)

func testBundle() *domain.Bundle {
	return &domain.Bundle{
		Version:     "20250309",
		GeneratedAt: time.Date(2025, 3, 9, 3, 0, 0, 0, time.UTC),
		Zones: []domain.ParkingZone{{
			ID:         "sf_rpp_q_001",
			PermitArea: "Q",
			Boundaries: []domain.Ring{{
				{Latitude: 37.76, Longitude: -122.43},
				{Latitude: 37.76, Longitude: -122.42},
				{Latitude: 37.77, Longitude: -122.42},
				{Latitude: 37.76, Longitude: -122.43},
			}},
		}},
		Meters: []domain.ParkingMeter{{PostID: "1", Latitude: 37.78, Longitude: -122.41}},
	}
}

func TestWriter_Write(t *testing.T) {
	for _, compress := range []bool{true, false} {
		dir := t.TempDir()
		w := NewWriter(dir, compress, zap.NewNop())
		b := testBundle()

		paths, err := w.Write(b, b.Dataset(nil))
		require.NoError(t, err)

		if compress {
			assert.Equal(t, filepath.Join(dir, "parking_data_20250309.json.gz"), paths.Bundle)
		} else {
			assert.Equal(t, filepath.Join(dir, "parking_data_20250309.json"), paths.Bundle)
		}

		got, err := ReadBundle(paths.Latest)
		require.NoError(t, err)
		assert.Equal(t, b.Version, got.Version)
		assert.Len(t, got.Meters, 1)

		zonesOnly, err := ReadBundle(paths.ZonesOnly)
		require.NoError(t, err)
		assert.Len(t, zonesOnly.Zones, 1)
		assert.Empty(t, zonesOnly.Meters)

		ds, err := asset.LoadDataset(paths.Asset)
		require.NoError(t, err)
		assert.Equal(t, "sf", ds.City.Code)
		assert.Equal(t, domain.SFBounds, ds.City.Bounds)

		latest, err := FindLatest(dir)
		require.NoError(t, err)
		assert.Equal(t, paths.Latest, latest)
	}
}

func TestFindLatest_FallsBackToDatedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"parking_data_20250302.json.gz", "parking_data_20250309.json.gz"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	latest, err := FindLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "parking_data_20250309.json.gz"), latest)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "zones_only_20250301.json"), []byte("x"), 0o644))
	latest, err = FindLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "zones_only_20250301.json"), latest)

	_, err = FindLatest(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
