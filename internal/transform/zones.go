package transform

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/geometry"
)

// RPP zones sit between metered and unrestricted areas.
const rppRestrictiveness = 8

var parcelAreaFields = []string{"rppeligib", "rpp_area", "rpparea", "area", "RPPELIGIB", "RPP_AREA"}

// ZoneID formats the app zone ID, e.g. sf_rpp_q_001.
func ZoneID(code string, index int) string {
	return fmt.Sprintf("sf_rpp_%s_%03d", strings.ToLower(code), index)
}

// DefaultRule is the standard RPP rule: Monday to Saturday 8 AM to 6 PM,
// two hours for non-permit holders.
func DefaultRule(code string) domain.ParkingRule {
	limit := 120
	return domain.ParkingRule{
		ID:                strings.ToLower(code) + "_rule_001",
		Type:              domain.RuleTypePermitRequired,
		Description:       "Residential Permit Area " + code + " only",
		EnforcementDays:   domain.Weekdays.With(time.Saturday),
		EnforcementStart:  &domain.TimeOfDay{Hour: 8},
		EnforcementEnd:    &domain.TimeOfDay{Hour: 18},
		TimeLimitMinutes:  &limit,
		PermitArea:        code,
		SpecialConditions: "2-hour limit for non-permit holders",
	}
}

// AreaRule refines the default rule with the most common permit schedule
// posted in the area. Regulations for other areas are ignored.
func AreaRule(code string, regs []domain.BlockfaceRegulation) domain.ParkingRule {
	rule := DefaultRule(code)

	type schedule struct {
		days       domain.DaySet
		start, end domain.TimeOfDay
		limit      int
	}
	counts := make(map[schedule]int)
	var best schedule
	bestN := 0
	for _, r := range regs {
		if r.Type != domain.RuleTypePermitRequired || !containsFold(r.PermitAreas, code) {
			continue
		}
		if r.EnforcementDays.IsEmpty() || r.EnforcementStart == nil || r.EnforcementEnd == nil || r.TimeLimitMinutes == nil {
			continue
		}
		s := schedule{r.EnforcementDays, *r.EnforcementStart, *r.EnforcementEnd, *r.TimeLimitMinutes}
		counts[s]++
		if n := counts[s]; n > bestN || (n == bestN && lessSchedule(s.days, s.start, best.days, best.start)) {
			best, bestN = s, n
		}
	}
	if bestN == 0 {
		return rule
	}

	rule.EnforcementDays = best.days
	start, end, limit := best.start, best.end, best.limit
	rule.EnforcementStart = &start
	rule.EnforcementEnd = &end
	rule.TimeLimitMinutes = &limit
	rule.SpecialConditions = fmt.Sprintf("%s limit for non-permit holders", formatLimit(limit))
	return rule
}

func lessSchedule(d1 domain.DaySet, s1 domain.TimeOfDay, d2 domain.DaySet, s2 domain.TimeOfDay) bool {
	if d1 != d2 {
		return d1 > d2
	}
	return s1.Minutes() < s2.Minutes()
}

func formatLimit(minutes int) string {
	if minutes%60 == 0 {
		return fmt.Sprintf("%d-hour", minutes/60)
	}
	return fmt.Sprintf("%d-minute", minutes)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// ZoneBuilder assembles RPP zones from parcel polygons or, failing that,
// from blockface line geometry.
type ZoneBuilder struct {
	decoder GeometryDecoder
	logger  *zap.Logger
}

// NewZoneBuilder creates a builder. A nil decoder falls back to GeoJSONDecoder.
func NewZoneBuilder(decoder GeometryDecoder, logger *zap.Logger) *ZoneBuilder {
	if decoder == nil {
		decoder = GeoJSONDecoder{}
	}
	return &ZoneBuilder{decoder: decoder, logger: logger}
}

// FromParcels groups parcel polygons by permit area, one zone per area.
func (b *ZoneBuilder) FromParcels(ctx context.Context, features []domain.RawFeature, regs []domain.BlockfaceRegulation, now time.Time) ([]domain.ParkingZone, error) {
	rings := make(map[string][]domain.Ring)
	failed := 0
	for i, f := range features {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		code := ""
		for _, k := range parcelAreaFields {
			if c := strings.ToUpper(strings.TrimSpace(f.Properties.String(k))); c != "" {
				code = c
				break
			}
		}
		if code == "" || len(f.Geometry) == 0 {
			continue
		}
		rs, err := b.decoder.DecodeGeoJSON(f.Geometry)
		if err != nil {
			failed++
			continue
		}
		rings[code] = append(rings[code], rs...)
	}
	if failed > 0 {
		b.logger.Warn("Skipped undecodable parcels", zap.Int("count", failed))
	}

	zones := b.assemble(rings, regs, now)
	b.logger.Info("Zones built from parcels",
		zap.Int("features", len(features)),
		zap.Int("zones", len(zones)))
	return zones, nil
}

// FromBlockfaces derives one convex boundary per permit area from the
// blockface line geometry.
func (b *ZoneBuilder) FromBlockfaces(records []domain.RawRecord, regs []domain.BlockfaceRegulation, now time.Time) []domain.ParkingZone {
	points := make(map[string]domain.Ring)
	for _, rec := range records {
		areas := PermitAreasOf(rec)
		if len(areas) == 0 {
			continue
		}
		raw, err := json.Marshal(rec["shape"])
		if err != nil || rec["shape"] == nil {
			continue
		}
		pts := linePoints(raw)
		for _, a := range areas {
			points[a] = append(points[a], pts...)
		}
	}

	rings := make(map[string][]domain.Ring, len(points))
	for code, pts := range points {
		hull := geometry.ConvexHull(pts)
		if len(hull) < 3 || geometry.Area(hull) == 0 {
			continue
		}
		rings[code] = []domain.Ring{geometry.Close(hull)}
	}

	zones := b.assemble(rings, regs, now)
	b.logger.Info("Zones derived from blockfaces",
		zap.Int("records", len(records)),
		zap.Int("zones", len(zones)))
	return zones
}

func (b *ZoneBuilder) assemble(rings map[string][]domain.Ring, regs []domain.BlockfaceRegulation, now time.Time) []domain.ParkingZone {
	codes := make([]string, 0, len(rings))
	for code := range rings {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	index := make(map[string]int)
	zones := make([]domain.ParkingZone, 0, len(codes))
	for _, code := range codes {
		if !domain.IsKnownPermitArea(code) {
			b.logger.Warn("Unknown permit area", zap.String("code", code))
		}
		index[code]++
		zones = append(zones, domain.ParkingZone{
			ID:               ZoneID(code, index[code]),
			CityCode:         "sf",
			DisplayName:      "Area " + code,
			Type:             domain.ZoneTypeResidentialPermit,
			PermitArea:       code,
			ValidPermitAreas: []string{code},
			RequiresPermit:   true,
			Restrictiveness:  rppRestrictiveness,
			Boundaries:       rings[code],
			Rules:            []domain.ParkingRule{AreaRule(code, regs)},
			Metadata: &domain.ZoneMetadata{
				DataSource:  "datasf_sfmta",
				LastUpdated: now.UTC().Truncate(time.Second),
				Accuracy:    "high",
			},
		})
	}
	return zones
}
