package usecase_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/pkg/errors"
	"github.com/sf-parking-zones/internal/repository/settings"
	"github.com/sf-parking-zones/internal/simplification"
	"github.com/sf-parking-zones/internal/usecase"
)

const tightPreset = `{
  "name": "tight",
  "description": "Strong line simplification",
  "settings": {
    "douglasPeucker": {"enabled": true, "tolerance": 0.0005},
    "deduplication": {"enabled": true, "threshold": 0.00001}
  }
}`

func newPresets(t *testing.T) *usecase.PresetUseCase {
	t.Helper()
	logger := zap.NewNop()
	store := settings.NewFileRepository(filepath.Join(t.TempDir(), "settings.yaml"), logger)
	return usecase.NewPresetUseCase(store, simplification.NewPipeline(nil, logger), logger)
}

func TestPresetUseCase_ImportListExport(t *testing.T) {
	ctx := context.Background()
	uc := newPresets(t)

	c, err := uc.Import(ctx, []byte(tightPreset))
	require.NoError(t, err)
	assert.Equal(t, "tight", c.Name)

	all, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(simplification.Presets())+1)
	assert.Equal(t, "tight", all[len(all)-1].Name)
	assert.True(t, all[len(all)-1].Settings.DouglasPeucker.Enabled)

	data, err := uc.Export(ctx, "tight", simplification.FormatYAML)
	require.NoError(t, err)
	back, err := simplification.ImportPreset(data)
	require.NoError(t, err)
	assert.Equal(t, c.Settings, back.Settings)
}

func TestPresetUseCase_ImportRejects(t *testing.T) {
	ctx := context.Background()
	uc := newPresets(t)

	_, err := uc.Import(ctx, []byte(`{"name": "balanced", "settings": {}}`))
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)

	_, err = uc.Import(ctx, []byte(`{"name": "wild", "settings": {"douglasPeucker": {"enabled": true, "tolerance": 5}}}`))
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)

	_, err = uc.Import(ctx, []byte("   "))
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestPresetUseCase_ResolveUsesActivePreset(t *testing.T) {
	ctx := context.Background()
	uc := newPresets(t)

	c, err := uc.Resolve(ctx, "", simplification.PresetOriginal)
	require.NoError(t, err)
	assert.Equal(t, simplification.PresetOriginal, c.Name)

	_, err = uc.Import(ctx, []byte(tightPreset))
	require.NoError(t, err)
	require.NoError(t, uc.SetActive(ctx, "tight"))

	c, err = uc.Resolve(ctx, "", simplification.PresetOriginal)
	require.NoError(t, err)
	assert.Equal(t, "tight", c.Name)

	c, err = uc.Resolve(ctx, simplification.PresetBlocky, "")
	require.NoError(t, err)
	assert.Equal(t, simplification.PresetBlocky, c.Name)

	_, err = uc.Resolve(ctx, "missing", "")
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
	assert.Error(t, uc.SetActive(ctx, "missing"))
}

func TestPresetUseCase_WithoutSettings(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewPresetUseCase(nil, simplification.NewPipeline(nil, zap.NewNop()), zap.NewNop())

	all, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(simplification.Presets()))

	_, err = uc.Resolve(ctx, "tight", "")
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
	assert.Error(t, uc.SetActive(ctx, simplification.PresetBalanced))
}

func TestPresetUseCase_SimplifyAndCompare(t *testing.T) {
	ctx := context.Background()
	uc := newPresets(t)
	zones := testDataset().Zones

	res, c, err := uc.Simplify(ctx, zones, "", "")
	require.NoError(t, err)
	assert.Equal(t, simplification.PresetOriginal, c.Name)
	require.Len(t, res.Zones, len(zones))
	assert.Equal(t, zones[0].Boundaries, res.Zones[0].Boundaries)

	ranked, err := uc.Compare(ctx, zones, 1.0)
	require.NoError(t, err)
	require.Len(t, ranked, len(simplification.Presets()))
	for _, r := range ranked {
		require.NotNil(t, r.Candidate.Metrics)
		assert.Equal(t, len(zones), r.Candidate.Metrics.Zones, r.Candidate.Name)
	}
}
