package domain

import "time"

// Bundle is the full pipeline output: zones plus the regulations and meters
// they were built from.
type Bundle struct {
	Version     string                `json:"version"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Zones       []ParkingZone         `json:"zones"`
	Regulations []BlockfaceRegulation `json:"regulations"`
	Meters      []ParkingMeter        `json:"meters"`
	Stats       BundleStats           `json:"stats"`
}

// BundleStats - счётчики для отчёта
type BundleStats struct {
	TotalZones       int `json:"totalZones"`
	TotalMeters      int `json:"totalMeters"`
	TotalRegulations int `json:"totalRegulations"`
}

// Dataset converts the bundle into the app asset format.
func (b *Bundle) Dataset(permitAreas []PermitArea) *Dataset {
	return &Dataset{
		Version:     b.Version,
		GeneratedAt: b.GeneratedAt,
		City: City{
			Code:   "sf",
			Name:   "San Francisco",
			State:  "CA",
			Bounds: SFBounds,
		},
		PermitAreas: permitAreas,
		Zones:       b.Zones,
	}
}
