// Package geos adapts GEOS topology operations to zone boundaries.
package geos

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/twpayne/go-geos"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/geometry"
)

const (
	defaultQuadSegs = 8
	// maxSplitDepth ограничивает рекурсию splitHoles
	maxSplitDepth = 16
)

// Topology runs overlap clipping, proximity merging and repair on GEOS.
type Topology struct {
	logger   *zap.Logger
	quadSegs int
}

func NewTopology(logger *zap.Logger) *Topology {
	return &Topology{logger: logger, quadSegs: defaultQuadSegs}
}

// recoverGEOS turns a go-geos panic into an error.
func recoverGEOS(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("geos %s: %v", op, r)
	}
}

// ClipOverlaps subtracts more restrictive zones from less restrictive ones.
// Higher Restrictiveness wins; ties go to the lower ID. Zones keep their
// input order, and a zone clipped away entirely keeps its boundaries.
func (t *Topology) ClipOverlaps(ctx context.Context, zones []domain.ParkingZone) (out []domain.ParkingZone, err error) {
	defer recoverGEOS("clip overlaps", &err)

	order := make([]int, len(zones))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		za, zb := zones[order[a]], zones[order[b]]
		if za.Restrictiveness != zb.Restrictiveness {
			return za.Restrictiveness > zb.Restrictiveness
		}
		return za.ID < zb.ID
	})

	out = make([]domain.ParkingZone, len(zones))
	copy(out, zones)

	var claimed *geos.Geom
	clipped := 0
	for _, idx := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g := unionOf(zones[idx].Boundaries)
		if g == nil {
			continue
		}
		if claimed == nil {
			claimed = g
			continue
		}

		if g.Intersects(claimed) {
			var rest []domain.Ring
			for _, piece := range splitHoles(g.Difference(claimed), 0) {
				rest = append(rest, ringsOf(piece)...)
			}
			if len(rest) > 0 {
				z := zones[idx].Clone()
				z.Boundaries = rest
				out[idx] = z
				clipped++
			} else {
				t.logger.Debug("Zone fully covered by stricter zones, keeping original",
					zap.String("zone_id", zones[idx].ID))
			}
		}
		claimed = claimed.Union(g)
	}

	t.logger.Debug("Overlaps clipped", zap.Int("zones", len(zones)), zap.Int("clipped", clipped))
	return out, nil
}

// MergeNearby joins polygons closer than distance: buffer out by half the
// distance, union, and buffer back in.
func (t *Topology) MergeNearby(ctx context.Context, rings []domain.Ring, distance float64) (out []domain.Ring, err error) {
	defer recoverGEOS("merge nearby", &err)

	if distance <= 0 || len(rings) < 2 {
		return rings, nil
	}

	var merged *geos.Geom
	for _, r := range rings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := polygon(r)
		if p == nil {
			continue
		}
		b := p.Buffer(distance/2, t.quadSegs)
		if merged == nil {
			merged = b
		} else {
			merged = merged.Union(b)
		}
	}
	if merged == nil {
		return rings, nil
	}

	out = ringsOf(merged.UnaryUnion().Buffer(-distance/2, t.quadSegs))
	if len(out) == 0 {
		return rings, nil
	}
	return out, nil
}

// Repair makes r valid and returns the largest resulting polygon's shell.
func (t *Topology) Repair(r domain.Ring) (out domain.Ring, err error) {
	defer recoverGEOS("repair", &err)

	p := polygon(r)
	if p == nil {
		return nil, fmt.Errorf("ring has %d points, need at least 3 distinct", len(r))
	}
	if p.IsValid() {
		return r, nil
	}
	t.logger.Debug("Repairing invalid ring", zap.String("reason", p.IsValidReason()))

	fixed := ringsOf(p.MakeValidWithParams(geos.MakeValidLinework, geos.MakeValidDiscardCollapsed))
	if len(fixed) == 0 {
		return nil, fmt.Errorf("ring collapsed during repair")
	}
	return largest(fixed), nil
}

// DecodeGeoJSON parses a Polygon or MultiPolygon geometry into repaired
// outer rings.
func (t *Topology) DecodeGeoJSON(raw []byte) (out []domain.Ring, err error) {
	defer recoverGEOS("decode geojson", &err)

	g, err := geos.NewGeomFromGeoJSON(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse geometry: %w", err)
	}
	switch g.TypeID() {
	case geos.TypeIDPolygon, geos.TypeIDMultiPolygon:
	default:
		return nil, fmt.Errorf("unsupported geometry type %d", g.TypeID())
	}
	if g.IsEmpty() {
		return nil, nil
	}
	if !g.IsValid() {
		g = g.MakeValidWithParams(geos.MakeValidLinework, geos.MakeValidDiscardCollapsed)
	}
	return ringsOf(g), nil
}

func polygon(r domain.Ring) *geos.Geom {
	closed := geometry.Close(r)
	if len(closed) < 4 {
		return nil
	}
	coords := make([][]float64, len(closed))
	for i, c := range closed {
		coords[i] = []float64{c.Longitude, c.Latitude}
	}
	return geos.NewPolygon([][][]float64{coords})
}

func unionOf(rings []domain.Ring) *geos.Geom {
	var acc *geos.Geom
	for _, r := range rings {
		p := polygon(r)
		if p == nil {
			continue
		}
		if !p.IsValid() {
			p = p.MakeValid()
		}
		if acc == nil {
			acc = p
		} else {
			acc = acc.Union(p)
		}
	}
	return acc
}

// splitHoles cuts polygons with holes along a vertical line through a hole
// until every piece is hole-free. Zone boundaries are shells only, so an
// enclosed stricter zone has to open its lenient neighbour instead of
// leaving a hole that ringsOf would drop.
func splitHoles(g *geos.Geom, depth int) []*geos.Geom {
	if g == nil || g.IsEmpty() {
		return nil
	}
	switch g.TypeID() {
	case geos.TypeIDPolygon:
		if g.NumInteriorRings() == 0 || depth >= maxSplitDepth {
			return []*geos.Geom{g}
		}
		hole := g.InteriorRing(0).Bounds()
		box := g.Bounds()
		x := (hole.MinX + hole.MaxX) / 2
		var out []*geos.Geom
		for _, half := range []*geos.Geom{
			rectangle(box.MinX, box.MinY, x, box.MaxY),
			rectangle(x, box.MinY, box.MaxX, box.MaxY),
		} {
			out = append(out, splitHoles(g.Intersection(half), depth+1)...)
		}
		return out
	case geos.TypeIDMultiPolygon, geos.TypeIDGeometryCollection:
		var out []*geos.Geom
		for i := 0; i < g.NumGeometries(); i++ {
			out = append(out, splitHoles(g.Geometry(i), depth)...)
		}
		return out
	default:
		// edges and points left over from cutting along a shared line
		return nil
	}
}

func rectangle(minX, minY, maxX, maxY float64) *geos.Geom {
	return geos.NewPolygon([][][]float64{{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}})
}

// ringsOf collects polygon shells from g, descending into collections.
func ringsOf(g *geos.Geom) []domain.Ring {
	if g == nil || g.IsEmpty() {
		return nil
	}
	switch g.TypeID() {
	case geos.TypeIDPolygon:
		coords := g.ExteriorRing().CoordSeq().ToCoords()
		if len(coords) < 4 {
			return nil
		}
		ring := make(domain.Ring, len(coords))
		for i, c := range coords {
			ring[i] = domain.Coordinate{Longitude: c[0], Latitude: c[1]}
		}
		return []domain.Ring{ring}
	case geos.TypeIDMultiPolygon, geos.TypeIDGeometryCollection:
		var out []domain.Ring
		for i := 0; i < g.NumGeometries(); i++ {
			out = append(out, ringsOf(g.Geometry(i))...)
		}
		return out
	default:
		return nil
	}
}

func largest(rings []domain.Ring) domain.Ring {
	best, bestArea := rings[0], -1.0
	for _, r := range rings {
		if a := math.Abs(geometry.Area(r)); a > bestArea {
			best, bestArea = r, a
		}
	}
	return best
}
