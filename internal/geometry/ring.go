// Package geometry implements planar polygon routines over lon/lat degrees.
// Longitude is x and latitude is y throughout.
package geometry

import (
	"math"

	"github.com/sf-parking-zones/internal/domain"
)

// IsClosed reports whether the first and last vertices coincide.
func IsClosed(r domain.Ring) bool {
	return len(r) >= 2 && r[0] == r[len(r)-1]
}

// Close returns a closed copy of r.
func Close(r domain.Ring) domain.Ring {
	out := r.Clone()
	if len(out) > 0 && !IsClosed(out) {
		out = append(out, out[0])
	}
	return out
}

// Open returns a copy of r without its closing vertex.
func Open(r domain.Ring) domain.Ring {
	if IsClosed(r) {
		return r[:len(r)-1].Clone()
	}
	return r.Clone()
}

// PointCount sums vertices over rings.
func PointCount(rings []domain.Ring) int {
	n := 0
	for _, r := range rings {
		n += len(r)
	}
	return n
}

// Area is the signed shoelace area in square degrees; counter-clockwise
// rings are positive.
func Area(r domain.Ring) float64 {
	pts := Open(r)
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].Longitude*pts[j].Latitude - pts[j].Longitude*pts[i].Latitude
	}
	return sum / 2
}

// Centroid is the area centroid, or the vertex mean for degenerate rings.
func Centroid(r domain.Ring) domain.Coordinate {
	pts := Open(r)
	if len(pts) == 0 {
		return domain.Coordinate{}
	}
	a := Area(r)
	if math.Abs(a) < 1e-18 {
		var c domain.Coordinate
		for _, p := range pts {
			c.Latitude += p.Latitude
			c.Longitude += p.Longitude
		}
		n := float64(len(pts))
		return domain.Coordinate{Latitude: c.Latitude / n, Longitude: c.Longitude / n}
	}
	var cx, cy float64
	for i := range pts {
		j := (i + 1) % len(pts)
		cross := pts[i].Longitude*pts[j].Latitude - pts[j].Longitude*pts[i].Latitude
		cx += (pts[i].Longitude + pts[j].Longitude) * cross
		cy += (pts[i].Latitude + pts[j].Latitude) * cross
	}
	return domain.Coordinate{Latitude: cy / (6 * a), Longitude: cx / (6 * a)}
}

// Bounds is the bounding box of r.
func Bounds(r domain.Ring) domain.BoundingBox {
	if len(r) == 0 {
		return domain.BoundingBox{}
	}
	b := domain.BoundingBox{North: r[0].Latitude, South: r[0].Latitude, East: r[0].Longitude, West: r[0].Longitude}
	for _, c := range r[1:] {
		b = b.Extend(c)
	}
	return b
}

// ContainsPoint is an even-odd point-in-polygon test.
func ContainsPoint(r domain.Ring, c domain.Coordinate) bool {
	return r.Contains(c)
}

func distance(a, b domain.Coordinate) float64 {
	return math.Hypot(a.Longitude-b.Longitude, a.Latitude-b.Latitude)
}

// PerpendicularDistance is the distance from p to segment ab.
func PerpendicularDistance(p, a, b domain.Coordinate) float64 {
	dx := b.Longitude - a.Longitude
	dy := b.Latitude - a.Latitude
	if dx == 0 && dy == 0 {
		return distance(p, a)
	}
	t := ((p.Longitude-a.Longitude)*dx + (p.Latitude-a.Latitude)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	proj := domain.Coordinate{Longitude: a.Longitude + t*dx, Latitude: a.Latitude + t*dy}
	return distance(p, proj)
}
