package simplification

import (
	"sort"
	"strings"
)

// Candidate is a named settings combination, optionally scored.
type Candidate struct {
	Name        string            `json:"name" yaml:"name" validate:"required,max=64"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Settings    DeveloperSettings `json:"settings" yaml:"settings"`
	Metrics     *Metrics          `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

const (
	PresetOriginal   = "original"
	PresetBalanced   = "balanced"
	PresetAggressive = "aggressive"
	PresetSmooth     = "smooth"
	PresetBlocky     = "blocky"
)

var presets = map[string]Candidate{
	PresetOriginal: {
		Name:        PresetOriginal,
		Description: "Source boundaries, no processing",
	},
	PresetBalanced: {
		Name:        PresetBalanced,
		Description: "Light simplification that keeps block shapes",
		Settings: DeveloperSettings{
			PointDedupe:     PointDedupeSettings{Enabled: true, Threshold: 0.000001},
			DouglasPeucker:  DouglasPeuckerSettings{Enabled: true, Tolerance: 0.00005},
			OverlapClipping: OverlapClippingSettings{Enabled: true},
			Deduplication:   DeduplicationSettings{Enabled: true, Threshold: 0.00001},
		},
	},
	PresetAggressive: {
		Name:        PresetAggressive,
		Description: "Fewest points; merges neighbouring blocks",
		Settings: DeveloperSettings{
			PointDedupe:     PointDedupeSettings{Enabled: true, Threshold: 0.00001},
			DouglasPeucker:  DouglasPeuckerSettings{Enabled: true, Tolerance: 0.0002},
			GridSnap:        GridSnapSettings{Enabled: true, GridSize: 0.0001},
			RepairInvalid:   true,
			OverlapClipping: OverlapClippingSettings{Enabled: true},
			ProximityMerge:  ProximityMergeSettings{Enabled: true, Distance: 0.0001},
			Deduplication:   DeduplicationSettings{Enabled: true, Threshold: 0.0001},
		},
	},
	PresetSmooth: {
		Name:        PresetSmooth,
		Description: "Rounded corners for a softer map overlay",
		Settings: DeveloperSettings{
			PointDedupe:    PointDedupeSettings{Enabled: true, Threshold: 0.000001},
			DouglasPeucker: DouglasPeuckerSettings{Enabled: true, Tolerance: 0.00005},
			CornerRounding: CornerRoundingSettings{Enabled: true, Iterations: 2, Ratio: 0.25},
			Deduplication:  DeduplicationSettings{Enabled: true, Threshold: 0.00001},
		},
	},
	PresetBlocky: {
		Name:        PresetBlocky,
		Description: "Convex, grid-aligned blocks",
		Settings: DeveloperSettings{
			ConvexHull:    ConvexHullSettings{Enabled: true},
			GridSnap:      GridSnapSettings{Enabled: true, GridSize: 0.0002},
			Deduplication: DeduplicationSettings{Enabled: true, Threshold: 0.0001},
		},
	},
}

// Preset returns a built-in candidate by name.
func Preset(name string) (Candidate, bool) {
	c, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Presets lists built-in candidates by name.
func Presets() []Candidate {
	out := make([]Candidate, 0, len(presets))
	for _, c := range presets {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
