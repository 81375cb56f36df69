package simplification

import (
	"fmt"

	"github.com/sf-parking-zones/internal/pkg/validator"
)

// Distances and tolerances are in degrees; 0.00001 is roughly 1.1 m.

type PointDedupeSettings struct {
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	Threshold float64 `json:"threshold" yaml:"threshold" validate:"gte=0,lte=0.001"`
}

type DouglasPeuckerSettings struct {
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	Tolerance float64 `json:"tolerance" yaml:"tolerance" validate:"gte=0,lte=0.01"`
}

type ConvexHullSettings struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

type GridSnapSettings struct {
	Enabled  bool    `json:"enabled" yaml:"enabled"`
	GridSize float64 `json:"gridSize" yaml:"gridSize" validate:"gte=0,lte=0.01"`
}

type CornerRoundingSettings struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	Iterations int     `json:"iterations" yaml:"iterations" validate:"gte=0,lte=5"`
	Ratio      float64 `json:"ratio" yaml:"ratio" validate:"gte=0,lte=0.5"`
}

type OverlapClippingSettings struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

type ProximityMergeSettings struct {
	Enabled  bool    `json:"enabled" yaml:"enabled"`
	Distance float64 `json:"distance" yaml:"distance" validate:"gte=0,lte=0.01"`
}

type DeduplicationSettings struct {
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	Threshold float64 `json:"threshold" yaml:"threshold" validate:"gte=0,lte=0.01"`
}

// DeveloperSettings switches and tunes every pipeline stage.
type DeveloperSettings struct {
	PointDedupe     PointDedupeSettings     `json:"pointDedupe" yaml:"pointDedupe"`
	DouglasPeucker  DouglasPeuckerSettings  `json:"douglasPeucker" yaml:"douglasPeucker"`
	ConvexHull      ConvexHullSettings      `json:"convexHull" yaml:"convexHull"`
	GridSnap        GridSnapSettings        `json:"gridSnap" yaml:"gridSnap"`
	CornerRounding  CornerRoundingSettings  `json:"cornerRounding" yaml:"cornerRounding"`
	RepairInvalid   bool                    `json:"repairInvalid" yaml:"repairInvalid"`
	OverlapClipping OverlapClippingSettings `json:"overlapClipping" yaml:"overlapClipping"`
	ProximityMerge  ProximityMergeSettings  `json:"proximityMerge" yaml:"proximityMerge"`
	Deduplication   DeduplicationSettings   `json:"deduplication" yaml:"deduplication"`
}

// Validate checks parameter bounds.
func (s DeveloperSettings) Validate() error {
	if err := validator.Validate(s); err != nil {
		return fmt.Errorf("invalid simplification settings: %w", err)
	}
	return nil
}

// NeedsTopology reports whether any enabled stage requires GEOS.
func (s DeveloperSettings) NeedsTopology() bool {
	return s.RepairInvalid || s.OverlapClipping.Enabled || s.ProximityMerge.Enabled
}

// IsNoop reports whether every stage is off.
func (s DeveloperSettings) IsNoop() bool {
	return s == DeveloperSettings{}
}
