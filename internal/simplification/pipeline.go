package simplification

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/geometry"
)

// Topology performs the stages that need a full geometry engine.
type Topology interface {
	ClipOverlaps(ctx context.Context, zones []domain.ParkingZone) ([]domain.ParkingZone, error)
	MergeNearby(ctx context.Context, rings []domain.Ring, distance float64) ([]domain.Ring, error)
	Repair(r domain.Ring) (domain.Ring, error)
}

// Metrics summarises one pipeline run.
type Metrics struct {
	Zones            int           `json:"zones" yaml:"zones"`
	PolygonsBefore   int           `json:"polygonsBefore" yaml:"polygonsBefore"`
	PolygonsAfter    int           `json:"polygonsAfter" yaml:"polygonsAfter"`
	PointsBefore     int           `json:"pointsBefore" yaml:"pointsBefore"`
	PointsAfter      int           `json:"pointsAfter" yaml:"pointsAfter"`
	ReductionPercent float64       `json:"reductionPercent" yaml:"reductionPercent"`
	MaxAreaDeviation float64       `json:"maxAreaDeviation" yaml:"maxAreaDeviation"`
	DroppedRings     int           `json:"droppedRings" yaml:"droppedRings"`
	RestoredZones    int           `json:"restoredZones" yaml:"restoredZones"`
	Duration         time.Duration `json:"duration" yaml:"duration"`
}

// Result is the processed zones plus metrics. Input zones are not modified.
type Result struct {
	Zones   []domain.ParkingZone
	Metrics Metrics
}

// Pipeline runs DeveloperSettings over zone boundaries.
type Pipeline struct {
	topology Topology
	logger   *zap.Logger
	workers  int
}

// NewPipeline creates a pipeline. topology may be nil, in which case the
// stages that need it are skipped.
func NewPipeline(topology Topology, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		topology: topology,
		logger:   logger,
		workers:  runtime.NumCPU(),
	}
}

// Run applies, in order: point dedupe, Douglas-Peucker, convex hull, grid
// snap, corner rounding, repair, overlap clipping, proximity merge and
// polygon dedup.
func (p *Pipeline) Run(ctx context.Context, zones []domain.ParkingZone, settings DeveloperSettings) (*Result, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	out := make([]domain.ParkingZone, len(zones))
	dropped := make([]int, len(zones))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range zones {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i], dropped[i] = p.processZone(zones[i], settings)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simplify zones: %w", err)
	}

	if settings.NeedsTopology() && p.topology == nil {
		p.logger.Warn("Topology stages requested but no engine configured, skipping",
			zap.Bool("overlap_clipping", settings.OverlapClipping.Enabled),
			zap.Bool("proximity_merge", settings.ProximityMerge.Enabled))
	}

	var err error
	if settings.OverlapClipping.Enabled && p.topology != nil {
		if out, err = p.topology.ClipOverlaps(ctx, out); err != nil {
			return nil, fmt.Errorf("clip overlaps: %w", err)
		}
	}

	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if settings.ProximityMerge.Enabled && p.topology != nil && len(out[i].Boundaries) > 1 {
			merged, err := p.topology.MergeNearby(ctx, out[i].Boundaries, settings.ProximityMerge.Distance)
			if err != nil {
				return nil, fmt.Errorf("merge zone %s: %w", out[i].ID, err)
			}
			out[i].Boundaries = merged
		}
		if settings.Deduplication.Enabled {
			out[i].Boundaries = geometry.DeduplicatePolygons(out[i].Boundaries, settings.Deduplication.Threshold)
		}
	}

	res := &Result{Zones: out, Metrics: measure(zones, out)}
	for i, n := range dropped {
		res.Metrics.DroppedRings += n
		if n > 0 && n == len(zones[i].Boundaries) {
			res.Metrics.RestoredZones++
		}
	}
	res.Metrics.Duration = time.Since(start)

	p.logger.Info("Simplification finished",
		zap.Int("zones", res.Metrics.Zones),
		zap.Int("points_before", res.Metrics.PointsBefore),
		zap.Int("points_after", res.Metrics.PointsAfter),
		zap.Float64("reduction_percent", res.Metrics.ReductionPercent),
		zap.Duration("duration", res.Metrics.Duration))

	return res, nil
}

// processZone runs the per-ring stages. A zone whose every ring collapses
// keeps its original boundaries.
func (p *Pipeline) processZone(zone domain.ParkingZone, s DeveloperSettings) (domain.ParkingZone, int) {
	out := zone.Clone()
	rings := make([]domain.Ring, 0, len(zone.Boundaries))
	dropped := 0
	for _, r := range zone.Boundaries {
		processed, ok := p.processRing(r, s)
		if !ok {
			dropped++
			continue
		}
		rings = append(rings, processed)
	}
	if len(rings) == 0 && len(zone.Boundaries) > 0 {
		p.logger.Debug("All rings collapsed, keeping original boundaries", zap.String("zone_id", zone.ID))
		return out, dropped
	}
	out.Boundaries = rings
	return out, dropped
}

func (p *Pipeline) processRing(r domain.Ring, s DeveloperSettings) (domain.Ring, bool) {
	ring := r.Clone()
	if s.PointDedupe.Enabled {
		ring = geometry.DedupePoints(ring, s.PointDedupe.Threshold)
	}
	if s.DouglasPeucker.Enabled {
		ring = geometry.DouglasPeucker(ring, s.DouglasPeucker.Tolerance)
	}
	if s.ConvexHull.Enabled {
		ring = geometry.ConvexHull(ring)
	}
	if s.GridSnap.Enabled {
		ring = geometry.SnapToGrid(ring, s.GridSnap.GridSize)
	}
	if !survives(ring) {
		return nil, false
	}
	if s.CornerRounding.Enabled {
		ring = geometry.RoundCorners(ring, s.CornerRounding.Iterations, s.CornerRounding.Ratio)
	}
	if s.RepairInvalid && p.topology != nil {
		fixed, err := p.topology.Repair(ring)
		if err != nil {
			p.logger.Debug("Ring repair failed, dropping", zap.Error(err))
			return nil, false
		}
		ring = fixed
	}
	return ring, survives(ring)
}

func survives(r domain.Ring) bool {
	return len(geometry.Open(r)) >= 3
}

func measure(before, after []domain.ParkingZone) Metrics {
	m := Metrics{Zones: len(after)}
	for i := range before {
		m.PolygonsBefore += len(before[i].Boundaries)
		m.PointsBefore += before[i].PointCount()
	}
	for i := range after {
		m.PolygonsAfter += len(after[i].Boundaries)
		m.PointsAfter += after[i].PointCount()
	}
	if m.PointsBefore > 0 {
		m.ReductionPercent = 100 * float64(m.PointsBefore-m.PointsAfter) / float64(m.PointsBefore)
	}
	for i := range before {
		if i >= len(after) {
			break
		}
		a0 := zoneArea(before[i])
		if a0 == 0 {
			continue
		}
		if dev := math.Abs(zoneArea(after[i])-a0) / a0; dev > m.MaxAreaDeviation {
			m.MaxAreaDeviation = dev
		}
	}
	return m
}

func zoneArea(z domain.ParkingZone) float64 {
	var a float64
	for _, r := range z.Boundaries {
		a += math.Abs(geometry.Area(r))
	}
	return a
}
