package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sf-parking-zones/internal/domain"
)

func TestAreaAndCentroid(t *testing.T) {
	sq := unitSquare()

	assert.InDelta(t, 1.0, Area(sq), 1e-12)
	assert.InDelta(t, -1.0, Area(domain.Ring{pt(0, 0), pt(0, 1), pt(1, 1), pt(1, 0)}), 1e-12)

	c := Centroid(sq)
	assert.InDelta(t, 0.5, c.Latitude, 1e-12)
	assert.InDelta(t, 0.5, c.Longitude, 1e-12)

	line := Centroid(domain.Ring{pt(0, 0), pt(2, 0)})
	assert.InDelta(t, 1.0, line.Longitude, 1e-12)
}

func TestCloseOpen(t *testing.T) {
	open := domain.Ring{pt(0, 0), pt(1, 0), pt(1, 1)}

	closed := Close(open)
	assert.True(t, IsClosed(closed))
	assert.Len(t, closed, 4)
	assert.Len(t, open, 3, "input untouched")
	assert.Equal(t, open, Open(closed))
	assert.Equal(t, closed, Close(closed))
}

func TestBoundsAndContains(t *testing.T) {
	b := Bounds(unitSquare())
	assert.Equal(t, domain.BoundingBox{North: 1, South: 0, East: 1, West: 0}, b)

	assert.True(t, ContainsPoint(unitSquare(), pt(0.5, 0.5)))
	assert.False(t, ContainsPoint(unitSquare(), pt(1.5, 0.5)))
}

func TestPerpendicularDistance(t *testing.T) {
	assert.InDelta(t, 1.0, PerpendicularDistance(pt(1, 1), pt(0, 0), pt(2, 0)), 1e-12)
	assert.InDelta(t, 1.0, PerpendicularDistance(pt(3, 0), pt(0, 0), pt(2, 0)), 1e-12, "beyond the segment end")
	assert.InDelta(t, 5.0, PerpendicularDistance(pt(3, 4), pt(0, 0), pt(0, 0)), 1e-12)
}

func TestHaversineMeters(t *testing.T) {
	a := domain.Coordinate{Latitude: 37.0, Longitude: -122.0}
	b := domain.Coordinate{Latitude: 38.0, Longitude: -122.0}

	assert.InDelta(t, 111195.0, HaversineMeters(a, b), 1.0)
	assert.Equal(t, HaversineMeters(a, b), HaversineMeters(b, a))
	assert.Zero(t, HaversineMeters(a, a))
	assert.InDelta(t, 1.0, MetersToDegrees(111320), 1e-12)
}
