// Package validate checks pipeline output for quality and completeness.
package validate

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
)

// Minimum expected counts
const (
	MinZones       = 30
	MinMeters      = 20000
	MinRegulations = 10000
)

// Incremental change thresholds as fractions of the previous count.
const (
	MaxZoneChange  = 0.2
	MaxMeterChange = 0.1
)

// maxInvalidMeters is the share of meters without coordinates that fails a run.
const maxInvalidMeters = 0.1

// Bounds is looser than domain.SFBounds so that bay-edge parcels pass.
var Bounds = domain.BoundingBox{
	North: 37.9298,
	South: 37.6398,
	East:  -122.2818,
	West:  -123.1738,
}

// Result - итог валидации
type Result struct {
	Valid    bool           `json:"valid"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Stats    map[string]int `json:"stats,omitempty"`
}

func newResult() *Result {
	return &Result{Valid: true, Stats: make(map[string]int)}
}

func (r *Result) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) merge(o *Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
	if !o.Valid {
		r.Valid = false
	}
}

// Options tune a validation run.
type Options struct {
	// SkipMeters disables meter checks for runs that did not fetch meters.
	SkipMeters bool
	// SkipRegulations disables regulation checks, e.g. for a bare app asset.
	SkipRegulations bool
}

type Validator struct {
	logger *zap.Logger
}

func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate checks a complete bundle.
func (v *Validator) Validate(b *domain.Bundle, opts Options) *Result {
	res := newResult()

	if b == nil {
		res.errorf("empty bundle")
		return res
	}
	if b.Version == "" {
		res.errorf("missing version")
	}

	res.merge(validateZones(b.Zones))
	if !opts.SkipMeters {
		res.merge(validateMeters(b.Meters))
	}
	if !opts.SkipRegulations {
		if len(b.Regulations) < MinRegulations {
			res.warnf("low regulation count: %d (expected >= %d)", len(b.Regulations), MinRegulations)
		}
		res.merge(crossValidate(b.Zones, b.Regulations))
	}

	res.Stats["zones"] = len(b.Zones)
	res.Stats["meters"] = len(b.Meters)
	res.Stats["regulations"] = len(b.Regulations)

	v.logger.Info("Validation complete",
		zap.Bool("valid", res.Valid),
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)))
	return res
}

func validateZones(zones []domain.ParkingZone) *Result {
	res := newResult()
	if len(zones) < MinZones {
		res.warnf("low zone count: %d (expected >= %d)", len(zones), MinZones)
	}

	seenIDs := make(map[string]bool, len(zones))
	seenCodes := make(map[string]bool, len(zones))
	for i, z := range zones {
		if z.ID == "" {
			res.errorf("zone %d: missing id", i)
			continue
		}
		if seenIDs[z.ID] {
			res.errorf("duplicate zone id: %s", z.ID)
		}
		seenIDs[z.ID] = true

		if z.Type == domain.ZoneTypeResidentialPermit {
			switch {
			case z.PermitArea == "":
				res.errorf("zone %s: missing permit area", z.ID)
			case !domain.IsKnownPermitArea(z.PermitArea):
				res.warnf("unknown permit area code: %s", z.PermitArea)
			}
			if z.PermitArea != "" {
				if seenCodes[z.PermitArea] {
					res.warnf("duplicate zone code: %s", z.PermitArea)
				}
				seenCodes[z.PermitArea] = true
			}
		}

		if len(z.Boundaries) == 0 {
			res.errorf("zone %s: missing boundary", z.ID)
			continue
		}
		outside := 0
		for _, ring := range z.Boundaries {
			if len(ring) < 3 {
				res.errorf("zone %s: ring with %d points", z.ID, len(ring))
				continue
			}
			for _, c := range ring {
				if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
					res.errorf("zone %s: invalid coordinate", z.ID)
					break
				}
				if !Bounds.Contains(c) {
					outside++
				}
			}
		}
		if outside > 0 {
			res.warnf("zone %s: %d coordinates outside SF bounds", z.ID, outside)
		}
	}
	return res
}

func validateMeters(meters []domain.ParkingMeter) *Result {
	res := newResult()
	if len(meters) < MinMeters {
		res.warnf("low meter count: %d (expected >= %d)", len(meters), MinMeters)
	}

	seen := make(map[string]bool, len(meters))
	duplicates, invalid, outside := 0, 0, 0
	for _, m := range meters {
		if m.PostID != "" {
			if seen[m.PostID] {
				duplicates++
			}
			seen[m.PostID] = true
		}
		if !m.HasLocation() {
			invalid++
			continue
		}
		if !Bounds.Contains(domain.Coordinate{Latitude: m.Latitude, Longitude: m.Longitude}) {
			outside++
		}
	}

	if duplicates > 0 {
		res.warnf("%d duplicate meter ids", duplicates)
	}
	if invalid > 0 {
		res.warnf("%d meters with invalid coordinates", invalid)
	}
	if outside > 0 {
		res.warnf("%d meters outside SF bounds", outside)
	}
	if float64(invalid) > float64(len(meters))*maxInvalidMeters {
		res.errorf("too many meters with invalid coordinates (%d of %d)", invalid, len(meters))
	}
	return res
}

func crossValidate(zones []domain.ParkingZone, regs []domain.BlockfaceRegulation) *Result {
	res := newResult()
	blocks := make(map[string]int)
	for _, r := range regs {
		for _, a := range r.PermitAreas {
			blocks[a]++
		}
	}
	for _, z := range zones {
		if z.PermitArea != "" && blocks[z.PermitArea] == 0 {
			res.warnf("zone %s has no associated blocks", z.PermitArea)
		}
	}
	return res
}

// Incremental compares a new bundle with the previous one and warns on
// large swings in zone or meter counts.
func (v *Validator) Incremental(next, prev *domain.Bundle) *Result {
	res := newResult()
	if next == nil || prev == nil {
		return res
	}

	if change, ok := relativeChange(len(next.Zones), len(prev.Zones)); ok && change > MaxZoneChange {
		res.warnf("significant zone count change: %d -> %d", len(prev.Zones), len(next.Zones))
	}
	if change, ok := relativeChange(len(next.Meters), len(prev.Meters)); ok && change > MaxMeterChange {
		res.warnf("significant meter count change: %d -> %d", len(prev.Meters), len(next.Meters))
	}

	age := next.GeneratedAt.Sub(prev.GeneratedAt)
	if !prev.GeneratedAt.IsZero() && age < 0 {
		res.warnf("new bundle is older than the previous one (%s)", (-age).Round(time.Second))
	}
	return res
}

func relativeChange(next, prev int) (float64, bool) {
	if prev == 0 {
		return 0, false
	}
	return math.Abs(float64(next-prev)) / float64(prev), true
}
