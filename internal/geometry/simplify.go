package geometry

import (
	"math"
	"sort"

	"github.com/sf-parking-zones/internal/domain"
)

// DouglasPeucker simplifies r keeping vertices farther than tolerance from
// the simplified line. The result never has more points than r, and a
// closed ring stays closed with at least three distinct vertices; if that
// is impossible r is returned unchanged.
func DouglasPeucker(r domain.Ring, tolerance float64) domain.Ring {
	if tolerance <= 0 || len(r) < 3 {
		return r.Clone()
	}

	keep := make([]bool, len(r))
	keep[0], keep[len(r)-1] = true, true
	dpMark(r, 0, len(r)-1, tolerance, keep)

	out := make(domain.Ring, 0, len(r))
	for i, k := range keep {
		if k {
			out = append(out, r[i])
		}
	}

	if IsClosed(r) && len(out) < 4 {
		return r.Clone()
	}
	return out
}

func dpMark(r domain.Ring, first, last int, tolerance float64, keep []bool) {
	for last-first > 1 {
		maxDist, index := 0.0, -1
		for i := first + 1; i < last; i++ {
			d := PerpendicularDistance(r[i], r[first], r[last])
			if d > maxDist {
				maxDist, index = d, i
			}
		}
		if index < 0 || maxDist <= tolerance {
			return
		}
		keep[index] = true
		dpMark(r, first, index, tolerance, keep)
		first = index
	}
}

// ConvexHull computes the hull with a Graham scan. The hull winds
// counter-clockwise and is closed when r is.
func ConvexHull(r domain.Ring) domain.Ring {
	pts := uniquePoints(Open(r))
	if len(pts) < 3 {
		return r.Clone()
	}

	pivot := 0
	for i, p := range pts {
		if p.Latitude < pts[pivot].Latitude ||
			(p.Latitude == pts[pivot].Latitude && p.Longitude < pts[pivot].Longitude) {
			pivot = i
		}
	}
	pts[0], pts[pivot] = pts[pivot], pts[0]
	p0 := pts[0]

	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		c := cross(p0, rest[i], rest[j])
		if c != 0 {
			return c > 0
		}
		return distance(p0, rest[i]) < distance(p0, rest[j])
	})

	stack := make(domain.Ring, 0, len(pts))
	stack = append(stack, p0)
	for _, p := range rest {
		for len(stack) >= 2 && cross(stack[len(stack)-2], stack[len(stack)-1], p) <= 0 {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, p)
	}

	if len(stack) < 3 {
		return r.Clone()
	}
	if IsClosed(r) {
		stack = append(stack, stack[0])
	}
	return stack
}

func cross(o, a, b domain.Coordinate) float64 {
	return (a.Longitude-o.Longitude)*(b.Latitude-o.Latitude) - (a.Latitude-o.Latitude)*(b.Longitude-o.Longitude)
}

func uniquePoints(r domain.Ring) domain.Ring {
	seen := make(map[domain.Coordinate]struct{}, len(r))
	out := make(domain.Ring, 0, len(r))
	for _, p := range r {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SnapToGrid rounds vertices to multiples of gridSize and drops consecutive
// duplicates. It returns nil when fewer than three distinct vertices remain.
func SnapToGrid(r domain.Ring, gridSize float64) domain.Ring {
	if gridSize <= 0 {
		return r.Clone()
	}
	closed := IsClosed(r)

	out := make(domain.Ring, 0, len(r))
	for _, p := range Open(r) {
		s := domain.Coordinate{
			Latitude:  math.Round(p.Latitude/gridSize) * gridSize,
			Longitude: math.Round(p.Longitude/gridSize) * gridSize,
		}
		if len(out) > 0 && out[len(out)-1] == s {
			continue
		}
		out = append(out, s)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	if len(uniquePoints(out)) < 3 {
		return nil
	}
	if closed {
		out = append(out, out[0])
	}
	return out
}

// RoundCorners applies Chaikin corner cutting. ratio is clamped to
// (0, 0.5]. Closed rings stay closed; open rings keep their endpoints.
func RoundCorners(r domain.Ring, iterations int, ratio float64) domain.Ring {
	if iterations <= 0 || len(r) < 3 {
		return r.Clone()
	}
	if ratio <= 0 || ratio > 0.5 {
		ratio = 0.25
	}

	closed := IsClosed(r)
	pts := Open(r)
	for it := 0; it < iterations; it++ {
		pts = chaikin(pts, ratio, closed)
	}
	if closed {
		pts = append(pts, pts[0])
	}
	return pts
}

func chaikin(pts domain.Ring, ratio float64, closed bool) domain.Ring {
	n := len(pts)
	out := make(domain.Ring, 0, 2*n)
	edges := n - 1
	if closed {
		edges = n
	} else {
		out = append(out, pts[0])
	}
	for i := 0; i < edges; i++ {
		a, b := pts[i], pts[(i+1)%n]
		out = append(out,
			lerp(a, b, ratio),
			lerp(a, b, 1-ratio),
		)
	}
	if !closed {
		out = append(out, pts[n-1])
	}
	return out
}

func lerp(a, b domain.Coordinate, t float64) domain.Coordinate {
	return domain.Coordinate{
		Latitude:  a.Latitude + (b.Latitude-a.Latitude)*t,
		Longitude: a.Longitude + (b.Longitude-a.Longitude)*t,
	}
}

// DedupePoints drops vertices within threshold of the previous kept vertex.
func DedupePoints(r domain.Ring, threshold float64) domain.Ring {
	if len(r) < 2 {
		return r.Clone()
	}
	closed := IsClosed(r)
	src := Open(r)

	out := make(domain.Ring, 0, len(src))
	out = append(out, src[0])
	for _, p := range src[1:] {
		if distance(out[len(out)-1], p) <= threshold {
			continue
		}
		out = append(out, p)
	}
	if closed {
		for len(out) > 1 && distance(out[len(out)-1], out[0]) <= threshold {
			out = out[:len(out)-1]
		}
		out = append(out, out[0])
	}
	return out
}

// DeduplicatePolygons drops rings whose bounds and centroid match an
// earlier ring within threshold.
func DeduplicatePolygons(rings []domain.Ring, threshold float64) []domain.Ring {
	type key struct {
		bounds   domain.BoundingBox
		centroid domain.Coordinate
	}
	kept := make([]key, 0, len(rings))
	out := make([]domain.Ring, 0, len(rings))

	for _, r := range rings {
		k := key{bounds: Bounds(r), centroid: Centroid(r)}
		dup := false
		for _, prev := range kept {
			if boundsNear(prev.bounds, k.bounds, threshold) && distance(prev.centroid, k.centroid) <= threshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, k)
		out = append(out, r)
	}
	return out
}

func boundsNear(a, b domain.BoundingBox, threshold float64) bool {
	return math.Abs(a.North-b.North) <= threshold &&
		math.Abs(a.South-b.South) <= threshold &&
		math.Abs(a.East-b.East) <= threshold &&
		math.Abs(a.West-b.West) <= threshold
}
