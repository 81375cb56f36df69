// Package app wires repositories, infrastructure and use cases from config.
package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/config"
	"github.com/sf-parking-zones/internal/domain/repository"
	"github.com/sf-parking-zones/internal/export"
	"github.com/sf-parking-zones/internal/infrastructure/datasf"
	"github.com/sf-parking-zones/internal/infrastructure/geos"
	"github.com/sf-parking-zones/internal/repository/asset"
	"github.com/sf-parking-zones/internal/repository/cache"
	redisRepo "github.com/sf-parking-zones/internal/repository/redis"
	"github.com/sf-parking-zones/internal/repository/settings"
	"github.com/sf-parking-zones/internal/rules"
	"github.com/sf-parking-zones/internal/simplification"
	"github.com/sf-parking-zones/internal/transform"
	"github.com/sf-parking-zones/internal/usecase"
	"github.com/sf-parking-zones/internal/validate"
)

// App holds the wired use cases. Zone lookups are built lazily because the
// pipeline commands do not need a zone asset.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Settings repository.SettingsRepository
	Streams  repository.StreamRepository
	Cache    repository.CacheRepository

	Presets   *usecase.PresetUseCase
	Pipeline  *usecase.PipelineUseCase
	Validator *validate.Validator

	redis *cache.Redis
	calc  *rules.Calculator
}

// New wires everything except zone lookups. Redis is connected only when
// enabled; a failed connection is fatal.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		Config:    cfg,
		Logger:    logger,
		Settings:  settings.NewFileRepository(cfg.Data.SettingsPath, logger),
		Validator: validate.NewValidator(logger),
		calc:      rules.NewCalculator(cfg.Location(), logger),
	}

	if cfg.Redis.Enabled {
		r, err := cache.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		a.redis = r
		a.Streams = redisRepo.NewStreamRepository(r.Client(), logger)
		a.Cache = cache.NewCacheRepository(r)
	}

	topology := geos.NewTopology(logger)
	a.Presets = usecase.NewPresetUseCase(a.Settings, simplification.NewPipeline(topology, logger), logger)

	opts := []datasf.Option{}
	if a.Cache != nil {
		opts = append(opts, datasf.WithCache(a.Cache, cfg.Cache.FetchTTL))
	}
	source := datasf.NewClient(cfg.DataSF, logger, opts...)

	a.Pipeline = usecase.NewPipelineUseCase(
		source,
		transform.NewZoneBuilder(topology, logger),
		a.Presets,
		a.Validator,
		export.NewWriter(cfg.Data.OutputDir, cfg.Data.Compress, logger),
		a.Streams,
		a.Cache,
		usecase.PipelineConfig{
			OutputDir:     cfg.Data.OutputDir,
			DefaultPreset: cfg.Simplification.Preset,
		},
		logger,
	)

	return a, nil
}

// Lookup loads the zone asset and builds the lookup use case.
func (a *App) Lookup() (*usecase.LookupUseCase, error) {
	zones, err := asset.NewZoneRepositoryFromFile(a.Config.Data.ZonesPath, a.Logger)
	if err != nil {
		return nil, err
	}
	return usecase.NewLookupUseCase(zones, a.Settings, a.calc, a.Logger), nil
}

// Sessions builds the session use case on top of Lookup.
func (a *App) Sessions() (*usecase.SessionUseCase, error) {
	lookup, err := a.Lookup()
	if err != nil {
		return nil, err
	}
	return usecase.NewSessionUseCase(lookup, a.Settings, a.Logger), nil
}

// Close releases the Redis connection.
func (a *App) Close() error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}
