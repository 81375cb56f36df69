package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RuleType - тип правила парковки
type RuleType string

const (
	RuleTypePermitRequired RuleType = "permit_required"
	RuleTypeTimeLimit      RuleType = "time_limit"
	RuleTypeMetered        RuleType = "metered"
	RuleTypeStreetCleaning RuleType = "street_cleaning"
	RuleTypeNoParking      RuleType = "no_parking"
	RuleTypeTowAway        RuleType = "tow_away"
	RuleTypeLoadingZone    RuleType = "loading_zone"
	RuleTypeOther          RuleType = "other"
)

// Priority orders rule types by restrictiveness. Lower is more restrictive.
func (t RuleType) Priority() int {
	switch t {
	case RuleTypeNoParking:
		return 1
	case RuleTypeTowAway:
		return 2
	case RuleTypeStreetCleaning:
		return 3
	case RuleTypeMetered:
		return 4
	case RuleTypeTimeLimit:
		return 5
	case RuleTypePermitRequired:
		return 6
	case RuleTypeLoadingZone:
		return 7
	case RuleTypeOther:
		return 8
	default:
		return 99
	}
}

// Prohibits reports whether an active rule of this type forbids parking outright.
func (t RuleType) Prohibits() bool {
	return t == RuleTypeNoParking || t == RuleTypeTowAway || t == RuleTypeStreetCleaning
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the instant of t on the calendar day of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

// ParseTimeOfDay accepts "HH:MM" and the DataSF compact forms "900", "1800"
// and "2400" (midnight).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeOfDay{}, fmt.Errorf("empty time of day")
	}

	if h, m, ok := strings.Cut(s, ":"); ok {
		hour, err := strconv.Atoi(h)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid hour %q: %w", h, err)
		}
		minute, err := strconv.Atoi(m)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid minute %q: %w", m, err)
		}
		return normalizeTimeOfDay(hour, minute)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if len(s) <= 2 {
		return normalizeTimeOfDay(n, 0)
	}
	return normalizeTimeOfDay(n/100, n%100)
}

func normalizeTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour == 24 && minute == 0 {
		hour = 0
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day out of range: %d:%d", hour, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// UnmarshalJSON accepts both {"hour":8,"minute":0} and "08:00".
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseTimeOfDay(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	var raw struct {
		Hour   int `json:"hour"`
		Minute int `json:"minute"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time of day: %w", err)
	}
	parsed, err := normalizeTimeOfDay(raw.Hour, raw.Minute)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DaySet is a set of weekdays. The zero value is the empty set.
type DaySet uint8

// EveryDay contains all seven weekdays.
const EveryDay DaySet = 1<<7 - 1

// Weekdays is Monday through Friday.
const Weekdays DaySet = 1<<time.Monday | 1<<time.Tuesday | 1<<time.Wednesday | 1<<time.Thursday | 1<<time.Friday

// NewDaySet builds a set from weekdays.
func NewDaySet(days ...time.Weekday) DaySet {
	var s DaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// With returns s plus d.
func (s DaySet) With(d time.Weekday) DaySet {
	return s | 1<<uint(d)
}

// Has reports whether d is in the set.
func (s DaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// IsEmpty reports whether no day is set.
func (s DaySet) IsEmpty() bool {
	return s == 0
}

// Days lists members Monday-first.
func (s DaySet) Days() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for _, d := range mondayFirst {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

var mondayFirst = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

var dayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// DataSF short codes
var dayCodes = map[string]time.Weekday{
	"M":  time.Monday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"W":  time.Wednesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"F":  time.Friday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// ParseDayName maps "monday", "Mon", "tues", "thurs" and similar to a weekday.
func ParseDayName(name string) (time.Weekday, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if d, ok := dayNames[n]; ok {
		return d, true
	}
	if len(n) < 2 {
		return 0, false
	}
	for full, d := range dayNames {
		if strings.HasPrefix(full, n) {
			return d, true
		}
	}
	return 0, false
}

// ParseDayCodes parses DataSF day expressions: "M-F", "M-Sa", "Daily",
// "M-Su", "Tu/Th", "M/W/F", "Sa,Su". Unknown tokens are ignored; an
// unparseable expression yields the empty set.
func ParseDayCodes(expr string) DaySet {
	e := strings.ToUpper(strings.TrimSpace(expr))
	switch e {
	case "":
		return 0
	case "DAILY", "M-SU", "EVERYDAY", "ALL":
		return EveryDay
	}

	var set DaySet
	tokens := strings.FieldsFunc(e, func(r rune) bool {
		return r == '/' || r == ',' || r == ' '
	})
	for _, tok := range tokens {
		if from, to, ok := strings.Cut(tok, "-"); ok {
			start, ok1 := dayCodes[from]
			end, ok2 := dayCodes[to]
			if !ok1 || !ok2 {
				continue
			}
			for d := start; ; d = (d + 1) % 7 {
				set = set.With(d)
				if d == end {
					break
				}
			}
			continue
		}
		if d, ok := dayCodes[tok]; ok {
			set = set.With(d)
			continue
		}
		if d, ok := ParseDayName(tok); ok {
			set = set.With(d)
		}
	}
	return set
}

// Names lists lower-case day names Monday-first.
func (s DaySet) Names() []string {
	days := s.Days()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = strings.ToLower(d.String())
	}
	return out
}

func (s DaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *DaySet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		var expr string
		if err2 := json.Unmarshal(data, &expr); err2 != nil {
			return fmt.Errorf("enforcement days: %w", err)
		}
		*s = ParseDayCodes(expr)
		return nil
	}
	var set DaySet
	for _, n := range names {
		d, ok := ParseDayName(n)
		if !ok {
			return fmt.Errorf("unknown day %q", n)
		}
		set = set.With(d)
	}
	*s = set
	return nil
}

// ParkingRule - одно правило зоны: тип, дни и часы действия, лимит
type ParkingRule struct {
	ID                string     `json:"id"`
	Type              RuleType   `json:"ruleType"`
	Description       string     `json:"description,omitempty"`
	EnforcementDays   DaySet     `json:"enforcementDays"`
	EnforcementStart  *TimeOfDay `json:"enforcementStartTime,omitempty"`
	EnforcementEnd    *TimeOfDay `json:"enforcementEndTime,omitempty"`
	TimeLimitMinutes  *int       `json:"timeLimit,omitempty"`
	MeterRate         *float64   `json:"meterRate,omitempty"`
	PermitArea        string     `json:"permitArea,omitempty"`
	SpecialConditions string     `json:"specialConditions,omitempty"`
}

// TimeLimit returns the limit as a duration, or zero when unlimited.
func (r ParkingRule) TimeLimit() time.Duration {
	if r.TimeLimitMinutes == nil || *r.TimeLimitMinutes <= 0 {
		return 0
	}
	return time.Duration(*r.TimeLimitMinutes) * time.Minute
}

// HasWindow reports whether the rule has an explicit time-of-day window.
func (r ParkingRule) HasWindow() bool {
	return r.EnforcementStart != nil && r.EnforcementEnd != nil
}

// SortRulesByPriority orders rules most restrictive first, ties by type
// name then ID. The input slice is not modified.
func SortRulesByPriority(rules []ParkingRule) []ParkingRule {
	out := make([]ParkingRule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Type.Priority(), out[j].Type.Priority()
		if pi != pj {
			return pi < pj
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CloneRules deep-copies rules so a snapshot cannot be changed through
// pointers shared with the source zone.
func CloneRules(rules []ParkingRule) []ParkingRule {
	if rules == nil {
		return nil
	}
	out := make([]ParkingRule, len(rules))
	for i, r := range rules {
		c := r
		if r.EnforcementStart != nil {
			v := *r.EnforcementStart
			c.EnforcementStart = &v
		}
		if r.EnforcementEnd != nil {
			v := *r.EnforcementEnd
			c.EnforcementEnd = &v
		}
		if r.TimeLimitMinutes != nil {
			v := *r.TimeLimitMinutes
			c.TimeLimitMinutes = &v
		}
		if r.MeterRate != nil {
			v := *r.MeterRate
			c.MeterRate = &v
		}
		out[i] = c
	}
	return out
}
