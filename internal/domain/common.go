package domain

import "math"

// Coordinate is a WGS84 point in the app's asset format.
type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// IsValid reports whether the coordinate is a real lat/lon pair.
func (c Coordinate) IsValid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Ring is one polygon boundary. A ring is closed when its first and last
// vertices are equal.
type Ring []Coordinate

// Clone returns a copy that shares no backing array with r.
func (r Ring) Clone() Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// Contains is an even-odd ray cast. Points exactly on an edge may fall
// either way.
func (r Ring) Contains(c Coordinate) bool {
	n := len(r)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, xi := r[i].Latitude, r[i].Longitude
		yj, xj := r[j].Latitude, r[j].Longitude
		if (yi > c.Latitude) != (yj > c.Latitude) &&
			c.Longitude < (xj-xi)*(c.Latitude-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// BoundingBox - прямоугольник покрытия в градусах
type BoundingBox struct {
	North float64 `json:"north" yaml:"north"`
	South float64 `json:"south" yaml:"south"`
	East  float64 `json:"east" yaml:"east"`
	West  float64 `json:"west" yaml:"west"`
}

// Contains reports whether c lies inside the box (edges inclusive).
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Latitude >= b.South && c.Latitude <= b.North &&
		c.Longitude >= b.West && c.Longitude <= b.East
}

// IsZero reports whether the box was never set.
func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}

// Extend grows the box to include c. A zero box becomes the point itself.
func (b BoundingBox) Extend(c Coordinate) BoundingBox {
	if b.IsZero() {
		return BoundingBox{North: c.Latitude, South: c.Latitude, East: c.Longitude, West: c.Longitude}
	}
	if c.Latitude > b.North {
		b.North = c.Latitude
	}
	if c.Latitude < b.South {
		b.South = c.Latitude
	}
	if c.Longitude > b.East {
		b.East = c.Longitude
	}
	if c.Longitude < b.West {
		b.West = c.Longitude
	}
	return b
}

// SFBounds is the San Francisco coverage area used by the app bundle.
var SFBounds = BoundingBox{
	North: 37.8324,
	South: 37.6398,
	East:  -122.3281,
	West:  -122.5274,
}
