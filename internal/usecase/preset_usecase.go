package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/domain/repository"
	"github.com/sf-parking-zones/internal/pkg/errors"
	"github.com/sf-parking-zones/internal/simplification"
)

// PresetUseCase - встроенные и пользовательские пресеты упрощения
type PresetUseCase struct {
	settings   repository.SettingsRepository
	simplifier *simplification.Pipeline
	logger     *zap.Logger
}

// NewPresetUseCase создает PresetUseCase. settings may be nil, in which case
// only built-in presets are available.
func NewPresetUseCase(settings repository.SettingsRepository, simplifier *simplification.Pipeline, logger *zap.Logger) *PresetUseCase {
	return &PresetUseCase{settings: settings, simplifier: simplifier, logger: logger}
}

// Resolve finds a preset by name: built-ins first, then user presets. An
// empty name means the active preset from settings, falling back to
// fallback.
func (uc *PresetUseCase) Resolve(ctx context.Context, name, fallback string) (simplification.Candidate, error) {
	if name == "" && uc.settings != nil {
		if s, err := uc.settings.Load(ctx); err == nil {
			name = s.ActivePreset
		}
	}
	if name == "" {
		name = fallback
	}

	if c, ok := simplification.Preset(name); ok {
		return c, nil
	}
	if uc.settings == nil {
		return simplification.Candidate{}, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"preset": name})
	}
	data, err := uc.settings.LoadCandidate(ctx, name)
	if err != nil {
		return simplification.Candidate{}, err
	}
	c, err := simplification.ImportPreset(data)
	if err != nil {
		return simplification.Candidate{}, errors.ErrInvalidRequest.
			WithDetails(map[string]interface{}{"preset": name}).
			Wrap(err)
	}
	return c, nil
}

// List returns built-in presets followed by user presets, each group by name.
func (uc *PresetUseCase) List(ctx context.Context) ([]simplification.Candidate, error) {
	out := simplification.Presets()
	if uc.settings == nil {
		return out, nil
	}
	names, err := uc.settings.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	for _, n := range names {
		if _, builtin := simplification.Preset(n); builtin {
			continue
		}
		c, err := uc.Resolve(ctx, n, "")
		if err != nil {
			uc.logger.Warn("Skipping unreadable preset", zap.String("name", n), zap.Error(err))
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Import stores a preset from clipboard JSON or YAML. Built-in names cannot
// be overwritten.
func (uc *PresetUseCase) Import(ctx context.Context, data []byte) (simplification.Candidate, error) {
	c, err := simplification.ImportPreset(data)
	if err != nil {
		return simplification.Candidate{}, errors.ErrInvalidRequest.Wrap(err)
	}
	if _, builtin := simplification.Preset(c.Name); builtin {
		return simplification.Candidate{}, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"preset": c.Name,
			"reason": "built-in preset",
		})
	}
	if uc.settings == nil {
		return c, nil
	}

	stored, err := simplification.ExportPreset(c, simplification.FormatYAML)
	if err != nil {
		return simplification.Candidate{}, err
	}
	if err := uc.settings.SaveCandidate(ctx, c.Name, stored); err != nil {
		return simplification.Candidate{}, err
	}
	return c, nil
}

// Export serialises a preset for sharing.
func (uc *PresetUseCase) Export(ctx context.Context, name string, format simplification.Format) ([]byte, error) {
	c, err := uc.Resolve(ctx, name, "")
	if err != nil {
		return nil, err
	}
	return simplification.ExportPreset(c, format)
}

// SetActive makes name the preset used when none is given.
func (uc *PresetUseCase) SetActive(ctx context.Context, name string) error {
	if uc.settings == nil {
		return errors.ErrInvalidRequest
	}
	c, err := uc.Resolve(ctx, name, "")
	if err != nil {
		return err
	}
	s, err := uc.settings.Load(ctx)
	if err != nil {
		return errors.ErrDataLoadFailed.Wrap(err)
	}
	s.ActivePreset = c.Name
	return uc.settings.Save(ctx, s)
}

// Simplify runs a preset over zones. fallback is used when neither name nor
// the active preset is set; an empty fallback means the original boundaries.
func (uc *PresetUseCase) Simplify(ctx context.Context, zones []domain.ParkingZone, name, fallback string) (*simplification.Result, simplification.Candidate, error) {
	if fallback == "" {
		fallback = simplification.PresetOriginal
	}
	c, err := uc.Resolve(ctx, name, fallback)
	if err != nil {
		return nil, c, err
	}
	res, err := uc.simplifier.Run(ctx, zones, c.Settings)
	if err != nil {
		return nil, c, err
	}
	return res, c, nil
}

// Compare scores every known preset over zones.
func (uc *PresetUseCase) Compare(ctx context.Context, zones []domain.ParkingZone, maxAreaDeviation float64) ([]simplification.Ranked, error) {
	candidates, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.simplifier.Compare(ctx, zones, candidates, maxAreaDeviation)
}
