package transform

import (
	"strconv"
	"strings"

	"github.com/sf-parking-zones/internal/domain"
)

var capColorLimits = map[string]int{
	"GREEN":  15,
	"YELLOW": 30,
	"GREY":   60,
	"GRAY":   60,
	"BROWN":  120,
}

// CapColorLimit infers a meter's time limit from its cap color.
func CapColorLimit(color string) (int, bool) {
	m, ok := capColorLimits[strings.ToUpper(strings.TrimSpace(color))]
	return m, ok
}

// Meters maps meter records. Records without a post ID are dropped; records
// with unusable coordinates are kept with a zero location so validation can
// count them.
func Meters(records []domain.RawRecord) []domain.ParkingMeter {
	out := make([]domain.ParkingMeter, 0, len(records))
	for _, rec := range records {
		id := firstOf(rec, "post_id", "POST_ID", "objectid")
		if id == "" {
			continue
		}
		lat, lon := meterLocation(rec)
		m := domain.ParkingMeter{
			PostID:       id,
			Latitude:     lat,
			Longitude:    lon,
			Street:       NormalizeStreet(firstOf(rec, "street_name", "STREET_NAME", "street")),
			StreetNumber: firstOf(rec, "street_num", "STREET_NUM"),
			CapColor:     strings.ToUpper(firstOf(rec, "cap_color", "CAP_COLOR")),
			RateArea:     firstOf(rec, "rate_area", "RATE_AREA"),
		}
		if limit, ok := CapColorLimit(m.CapColor); ok {
			m.TimeLimitMinutes = &limit
		}
		out = append(out, m)
	}
	return out
}

func meterLocation(rec domain.RawRecord) (float64, float64) {
	lat, err1 := strconv.ParseFloat(firstOf(rec, "latitude", "LATITUDE"), 64)
	lon, err2 := strconv.ParseFloat(firstOf(rec, "longitude", "LONGITUDE"), 64)
	if err1 == nil && err2 == nil {
		return lat, lon
	}

	// {"type":"Point","coordinates":[lon,lat]}
	if p, ok := rec["point"].(map[string]interface{}); ok {
		pt := domain.RawRecord(p)
		lat, err1 = strconv.ParseFloat(pt.String("latitude"), 64)
		lon, err2 = strconv.ParseFloat(pt.String("longitude"), 64)
		if err1 == nil && err2 == nil {
			return lat, lon
		}
		if coords, ok := p["coordinates"].([]interface{}); ok && len(coords) == 2 {
			lon, err1 = strconv.ParseFloat(domain.RawRecord{"v": coords[0]}.String("v"), 64)
			lat, err2 = strconv.ParseFloat(domain.RawRecord{"v": coords[1]}.String("v"), 64)
			if err1 == nil && err2 == nil {
				return lat, lon
			}
		}
	}
	return 0, 0
}
