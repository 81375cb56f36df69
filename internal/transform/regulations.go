// Package transform converts raw DataSF records into domain types.
package transform

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/sf-parking-zones/internal/domain"
)

var permitAreaFields = []string{"rpparea1", "rpparea2", "rpparea3"}

// PermitAreasOf returns the distinct RPP codes on a blockface record.
func PermitAreasOf(rec domain.RawRecord) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range permitAreaFields {
		for _, key := range []string{f, strings.ToUpper(f)} {
			code := strings.ToUpper(strings.TrimSpace(rec.String(key)))
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

// ParseTimeLimit reads "2", "1.5", "2HR", "2 HOURS" and "30MIN" into minutes.
// Bare numbers are hours.
func ParseTimeLimit(s string) (int, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if f <= 0 {
			return 0, false
		}
		return int(math.Round(f * 60)), true
	}

	unit := 60
	switch {
	case strings.Contains(v, "MIN"):
		unit = 1
		v = v[:strings.Index(v, "MIN")]
	case strings.Contains(v, "HOUR"):
		v = v[:strings.Index(v, "HOUR")]
	case strings.Contains(v, "HR"):
		v = v[:strings.Index(v, "HR")]
	}
	digits := strings.TrimFunc(v, func(r rune) bool { return !unicode.IsDigit(r) && r != '.' })
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(math.Round(f * float64(unit))), true
}

func firstOf(rec domain.RawRecord, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(rec.String(k)); v != "" {
			return v
		}
	}
	return ""
}

func parseTime(s string) *domain.TimeOfDay {
	if s == "" {
		return nil
	}
	t, err := domain.ParseTimeOfDay(s)
	if err != nil {
		return nil
	}
	return &t
}

// Regulations maps blockface records to regulations. One record may carry
// several regulations, e.g. a time limit that permit holders are exempt from.
// Records with no recognisable regulation are counted in skipped.
func Regulations(records []domain.RawRecord) (regs []domain.BlockfaceRegulation, skipped int) {
	for _, rec := range records {
		r := RegulationsOf(rec)
		if len(r) == 0 {
			skipped++
			continue
		}
		regs = append(regs, r...)
	}
	return regs, skipped
}

// RegulationsOf maps one blockface record.
func RegulationsOf(rec domain.RawRecord) []domain.BlockfaceRegulation {
	areas := PermitAreasOf(rec)
	text := strings.ToLower(firstOf(rec, "regulation", "REGULATION"))

	var limit *int
	if m, ok := ParseTimeLimit(firstOf(rec, "hrlimit", "HRLIMIT", "time_limit")); ok {
		limit = &m
	}

	base := domain.BlockfaceRegulation{
		Street:           NormalizeStreet(firstOf(rec, "street", "STREET", "street_name", "streetname")),
		FromStreet:       NormalizeStreet(firstOf(rec, "from_street", "FROM_STREET", "fromstreet")),
		ToStreet:         NormalizeStreet(firstOf(rec, "to_street", "TO_STREET", "tostreet")),
		Side:             strings.ToUpper(firstOf(rec, "side", "blockside")),
		EnforcementDays:  domain.ParseDayCodes(firstOf(rec, "days", "DAYS")),
		EnforcementStart: parseTime(firstOf(rec, "hrs_begin", "HRS_BEGIN", "from_time")),
		EnforcementEnd:   parseTime(firstOf(rec, "hrs_end", "HRS_END", "to_time")),
	}
	if exc := firstOf(rec, "exceptions", "EXCEPTIONS"); exc != "" {
		base.SpecialConditions = exc
	}

	with := func(t domain.RuleType, lim *int, permits []string) domain.BlockfaceRegulation {
		r := base
		r.Type = t
		r.TimeLimitMinutes = lim
		r.PermitAreas = permits
		return r
	}

	var out []domain.BlockfaceRegulation
	switch {
	case strings.Contains(text, "street cleaning") || strings.Contains(text, "sweeping"):
		out = append(out, with(domain.RuleTypeStreetCleaning, nil, nil))
	case strings.Contains(text, "tow"):
		out = append(out, with(domain.RuleTypeTowAway, nil, nil))
	case strings.Contains(text, "no parking") || strings.Contains(text, "no overnight") || strings.Contains(text, "no stopping"):
		out = append(out, with(domain.RuleTypeNoParking, nil, nil))
	case strings.Contains(text, "pay or permit"):
		out = append(out, with(domain.RuleTypeMetered, limit, nil))
		if len(areas) > 0 {
			out = append(out, with(domain.RuleTypePermitRequired, limit, areas))
		}
	case strings.Contains(text, "meter") || rec.String("metered") == "true":
		out = append(out, with(domain.RuleTypeMetered, limit, nil))
	case strings.Contains(text, "loading"):
		out = append(out, with(domain.RuleTypeLoadingZone, limit, nil))
	case strings.Contains(text, "time limit"):
		out = append(out, with(domain.RuleTypeTimeLimit, limit, nil))
		if len(areas) > 0 {
			out = append(out, with(domain.RuleTypePermitRequired, limit, areas))
		}
	case len(areas) > 0 || strings.Contains(text, "rpp") || strings.Contains(text, "residential permit"):
		if len(areas) > 0 {
			out = append(out, with(domain.RuleTypePermitRequired, limit, areas))
		}
	case limit != nil:
		out = append(out, with(domain.RuleTypeTimeLimit, limit, nil))
	}
	return out
}
