package rules

import (
	"time"

	"github.com/sf-parking-zones/internal/domain"
)

// SortByPriority orders rules most restrictive first.
func SortByPriority(rules []domain.ParkingRule) []domain.ParkingRule {
	return domain.SortRulesByPriority(rules)
}

// ActiveRules returns the rules enforced at t, most restrictive first.
func ActiveRules(rules []domain.ParkingRule, t time.Time) []domain.ParkingRule {
	var out []domain.ParkingRule
	for _, r := range SortByPriority(rules) {
		if IsEnforced(r, t) {
			out = append(out, r)
		}
	}
	return out
}

// MostRestrictive returns the highest-priority active rule.
func MostRestrictive(rules []domain.ParkingRule, t time.Time) (domain.ParkingRule, bool) {
	active := ActiveRules(rules, t)
	if len(active) == 0 {
		return domain.ParkingRule{}, false
	}
	return active[0], true
}

// MatchRules returns the rules of zone that apply to a vehicle at t. A
// valid permit holder is not bound by permit or time-limit rules.
func MatchRules(zone domain.ParkingZone, validity Validity, t time.Time) []domain.ParkingRule {
	var out []domain.ParkingRule
	for _, r := range ActiveRules(zone.Rules, t) {
		if validity == ValidityValid &&
			(r.Type == domain.RuleTypePermitRequired || r.Type == domain.RuleTypeTimeLimit) {
			continue
		}
		out = append(out, r)
	}
	return out
}
