package usecase

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/domain/repository"
	"github.com/sf-parking-zones/internal/export"
	"github.com/sf-parking-zones/internal/pkg/errors"
	"github.com/sf-parking-zones/internal/pkg/validator"
	"github.com/sf-parking-zones/internal/transform"
	"github.com/sf-parking-zones/internal/usecase/dto"
	"github.com/sf-parking-zones/internal/validate"
)

// PipelineConfig - параметры пайплайна данных
type PipelineConfig struct {
	OutputDir     string
	DefaultPreset string
}

// PipelineUseCase - загрузка, преобразование, упрощение, валидация и
// публикация данных о зонах
type PipelineUseCase struct {
	source    repository.ParkingDataSource
	builder   *transform.ZoneBuilder
	presets   *PresetUseCase
	validator *validate.Validator
	writer    *export.Writer
	streams   repository.StreamRepository
	cache     repository.CacheRepository
	cfg       PipelineConfig
	logger    *zap.Logger
	now       func() time.Time
	mu        sync.Mutex
}

// NewPipelineUseCase создает PipelineUseCase. streams and cache may be nil
// when Redis is disabled.
func NewPipelineUseCase(
	source repository.ParkingDataSource,
	builder *transform.ZoneBuilder,
	presets *PresetUseCase,
	validator *validate.Validator,
	writer *export.Writer,
	streams repository.StreamRepository,
	cache repository.CacheRepository,
	cfg PipelineConfig,
	logger *zap.Logger,
) *PipelineUseCase {
	return &PipelineUseCase{
		source:    source,
		builder:   builder,
		presets:   presets,
		validator: validator,
		writer:    writer,
		streams:   streams,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

type fetched struct {
	blockfaces []domain.RawRecord
	parcels    []domain.RawFeature
	meters     []domain.RawRecord
	durations  map[string]time.Duration
	mu         sync.Mutex
}

func (f *fetched) took(name string, start time.Time) {
	f.mu.Lock()
	f.durations[name] = time.Since(start)
	f.mu.Unlock()
}

// Run executes one full pipeline run. Only one run may be in progress per
// use case; validation errors abort before anything is written.
func (uc *PipelineUseCase) Run(ctx context.Context, req dto.PipelineRunRequest) (*dto.RunReport, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(validator.FieldErrors(err))
	}
	if !uc.mu.TryLock() {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": "pipeline already running"})
	}
	defer uc.mu.Unlock()

	started := uc.now().UTC()
	report := &dto.RunReport{
		RunID:        uuid.New(),
		Version:      started.Format(export.VersionFormat),
		StartedAt:    started,
		RecordCounts: make(map[string]int),
	}
	log := uc.logger.With(zap.String("run_id", report.RunID.String()))
	log.Info("Pipeline run started", zap.Bool("skip_meters", req.SkipMeters), zap.String("reason", req.Reason))

	// 1. fetch
	raw, err := uc.fetch(ctx, req.SkipMeters, log)
	if err != nil {
		return nil, err
	}
	report.FetchDurations = raw.durations
	report.RecordCounts["blockfaces"] = len(raw.blockfaces)
	report.RecordCounts["parcels"] = len(raw.parcels)
	report.RecordCounts["meters"] = len(raw.meters)

	// 2. transform
	regs, skipped := transform.Regulations(raw.blockfaces)
	report.RecordCounts["skipped_blockfaces"] = skipped
	meters := transform.Meters(raw.meters)

	var zones []domain.ParkingZone
	if len(raw.parcels) > 0 {
		if zones, err = uc.builder.FromParcels(ctx, raw.parcels, regs, started); err != nil {
			return nil, err
		}
	}
	if len(zones) == 0 {
		log.Warn("No parcel zones, deriving zones from blockfaces")
		zones = uc.builder.FromBlockfaces(raw.blockfaces, regs, started)
	}

	// 3. simplify
	res, preset, err := uc.presets.Simplify(ctx, zones, req.Preset, uc.cfg.DefaultPreset)
	if err != nil {
		return nil, err
	}
	if !preset.Settings.IsNoop() {
		metrics := res.Metrics
		report.Simplification = &metrics
	}
	zones = res.Zones

	bundle := &domain.Bundle{
		Version:     report.Version,
		GeneratedAt: started,
		Zones:       zones,
		Regulations: regs,
		Meters:      meters,
	}

	// 4. validate
	report.Validation = uc.validator.Validate(bundle, validate.Options{SkipMeters: req.SkipMeters})
	for _, w := range report.Validation.Warnings {
		log.Warn("Validation warning", zap.String("warning", w))
	}
	if !report.Validation.Valid {
		for _, e := range report.Validation.Errors {
			log.Error("Validation error", zap.String("error", e))
		}
		report.Duration = time.Since(started)
		return report, errors.ErrValidationFailed.WithDetails(map[string]interface{}{"errors": report.Validation.Errors})
	}
	if prev := uc.previous(req.Previous, log); prev != nil {
		report.Incremental = uc.validator.Incremental(bundle, prev)
		for _, w := range report.Incremental.Warnings {
			log.Warn("Incremental check", zap.String("warning", w))
		}
	}

	// 5. export
	located := make([]domain.ParkingMeter, 0, len(bundle.Meters))
	for _, m := range bundle.Meters {
		if m.HasLocation() {
			located = append(located, m)
		}
	}
	bundle.Meters = located
	bundle.Stats = domain.BundleStats{
		TotalZones:       len(bundle.Zones),
		TotalMeters:      len(bundle.Meters),
		TotalRegulations: len(bundle.Regulations),
	}
	report.Zones, report.Meters, report.Regulations = len(bundle.Zones), len(bundle.Meters), len(bundle.Regulations)

	paths, err := uc.writer.Write(bundle, bundle.Dataset(transform.PermitAreas(bundle.Zones)))
	if err != nil {
		return nil, errors.ErrUnknown.Wrap(err)
	}
	report.Paths = paths

	// 6. publish
	event := &domain.DatasetPublishedEvent{
		RunID:       report.RunID,
		Version:     report.Version,
		GeneratedAt: started,
		AssetPath:   paths.Asset,
		Zones:       report.Zones,
		Meters:      report.Meters,
		Warnings:    len(report.Validation.Warnings),
	}
	report.Published = uc.publish(ctx, event, log)

	report.Duration = time.Since(started)
	log.Info("Pipeline run completed",
		zap.Duration("duration", report.Duration),
		zap.Int("zones", report.Zones),
		zap.Int("meters", report.Meters),
		zap.Int("regulations", report.Regulations))
	return report, nil
}

// fetch pulls every source concurrently. Parcel failures are tolerated
// because zones can be derived from blockfaces.
func (uc *PipelineUseCase) fetch(ctx context.Context, skipMeters bool, log *zap.Logger) (*fetched, error) {
	raw := &fetched{durations: make(map[string]time.Duration)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		defer raw.took("blockfaces", start)
		records, err := uc.source.FetchBlockfaces(gctx, true)
		if err != nil {
			return err
		}
		raw.blockfaces = records
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		defer raw.took("parcels", start)
		features, err := uc.source.FetchPermitParcels(gctx)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			log.Warn("Permit parcels fetch failed, will derive zones from blockfaces", zap.Error(err))
			return nil
		}
		raw.parcels = features
		return nil
	})
	if !skipMeters {
		g.Go(func() error {
			start := time.Now()
			defer raw.took("meters", start)
			records, err := uc.source.FetchMeters(gctx)
			if err != nil {
				return err
			}
			raw.meters = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("Fetch failed", zap.Error(err))
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, err
		}
		return nil, errors.ErrFetchFailed.Wrap(err)
	}
	return raw, nil
}

func (uc *PipelineUseCase) previous(path string, log *zap.Logger) *domain.Bundle {
	if path == "" {
		latest, err := export.FindLatest(uc.cfg.OutputDir)
		if err != nil {
			if !stderrors.Is(err, fs.ErrNotExist) {
				log.Warn("Failed to find previous bundle", zap.Error(err))
			}
			return nil
		}
		path = latest
	}
	prev, err := export.ReadBundle(path)
	if err != nil {
		log.Warn("Failed to read previous bundle", zap.String("path", path), zap.Error(err))
		return nil
	}
	return prev
}

func (uc *PipelineUseCase) publish(ctx context.Context, event *domain.DatasetPublishedEvent, log *zap.Logger) bool {
	published := false
	if uc.streams != nil {
		if err := uc.streams.PublishToStream(ctx, domain.StreamDatasetPublished, event); err != nil {
			log.Error("Failed to publish dataset event", zap.Error(err))
		} else {
			published = true
		}
	}
	if uc.cache != nil {
		if err := uc.cache.SetLastPublished(ctx, event); err != nil {
			log.Warn("Failed to cache last published event", zap.Error(err))
		}
	}
	return published
}

// RequestRun asks a running worker to start a pipeline run.
func (uc *PipelineUseCase) RequestRun(ctx context.Context, req dto.PipelineRunRequest) (*domain.PipelineRunRequest, error) {
	if uc.streams == nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": "redis is disabled"})
	}
	msg := &domain.PipelineRunRequest{
		RequestID:   uuid.New(),
		RequestedAt: uc.now().UTC(),
		SkipMeters:  req.SkipMeters,
		Preset:      req.Preset,
		Reason:      req.Reason,
	}
	if err := uc.streams.PublishToStream(ctx, domain.StreamPipelineRequested, msg); err != nil {
		return nil, errors.ErrUnknown.Wrap(err)
	}
	uc.logger.Info("Pipeline run requested", zap.String("request_id", msg.RequestID.String()))
	return msg, nil
}

// LastPublished returns the most recent dataset event, or nil.
func (uc *PipelineUseCase) LastPublished(ctx context.Context) (*domain.DatasetPublishedEvent, error) {
	if uc.cache == nil {
		return nil, nil
	}
	event, err := uc.cache.GetLastPublished(ctx)
	if err != nil {
		return nil, errors.ErrCacheError.Wrap(err)
	}
	return event, nil
}

// HandleRequest runs the pipeline for a stream message. It is the worker's
// entry point.
func (uc *PipelineUseCase) HandleRequest(ctx context.Context, data string) (*dto.RunReport, error) {
	var msg domain.PipelineRunRequest
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return nil, errors.ErrInvalidRequest.Wrap(err)
	}
	return uc.Run(ctx, dto.PipelineRunRequest{
		SkipMeters: msg.SkipMeters,
		Preset:     msg.Preset,
		Reason:     "stream request " + msg.RequestID.String(),
	})
}
