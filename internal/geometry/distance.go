package geometry

import (
	"math"

	"github.com/sf-parking-zones/internal/domain"
)

const (
	earthRadiusMeters = 6371000.0
	metersPerDegree   = 111320.0
)

// HaversineMeters вычисляет расстояние между двумя точками в метрах
func HaversineMeters(a, b domain.Coordinate) float64 {
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180.0
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180.0

	lat1Rad := a.Latitude * math.Pi / 180.0
	lat2Rad := b.Latitude * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// MetersToDegrees converts a ground distance to degrees of latitude.
func MetersToDegrees(m float64) float64 {
	return m / metersPerDegree
}
