package rules

import (
	"time"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
)

// RuleResult is the deadline a single rule imposes.
type RuleResult struct {
	Rule   domain.ParkingRule `json:"rule"`
	Result Result             `json:"result"`
}

// Evaluation is the combined outcome for one zone at one instant.
type Evaluation struct {
	Validity Validity             `json:"validity"`
	Deadline Result               `json:"deadline"`
	Active   []domain.ParkingRule `json:"activeRules"`
	PerRule  []RuleResult         `json:"perRule"`
}

// Calculator evaluates zone rules in a fixed time zone.
type Calculator struct {
	loc    *time.Location
	logger *zap.Logger
}

func NewCalculator(loc *time.Location, logger *zap.Logger) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc, logger: logger}
}

// Location is the zone all rule windows are read in.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Evaluate combines every rule of zone; the earliest deadline wins and ties
// go to the more restrictive rule.
func (c *Calculator) Evaluate(zone domain.ParkingZone, permits []domain.ParkingPermit, now time.Time) Evaluation {
	now = now.In(c.loc)
	validity := EvaluateValidity(zone, permits)

	ev := Evaluation{
		Validity: validity,
		Deadline: Result{Kind: KindUnrestricted},
		Active:   ActiveRules(zone.Rules, now),
	}

	for _, rule := range SortByPriority(zone.Rules) {
		res, applies := c.evaluateRule(rule, validity, now)
		if !applies {
			continue
		}
		res.RuleID = rule.ID
		ev.PerRule = append(ev.PerRule, RuleResult{Rule: rule, Result: res})
		if res.Before(ev.Deadline) {
			ev.Deadline = res
		}
	}

	c.logger.Debug("Zone evaluated",
		zap.String("zone_id", zone.ID),
		zap.String("validity", string(validity)),
		zap.String("deadline_kind", string(ev.Deadline.Kind)),
		zap.Int("rules", len(zone.Rules)))

	return ev
}

func (c *Calculator) evaluateRule(rule domain.ParkingRule, validity Validity, now time.Time) (Result, bool) {
	in := Input{
		Now:              now,
		TimeLimit:        rule.TimeLimit(),
		EnforcementDays:  rule.EnforcementDays,
		EnforcementStart: rule.EnforcementStart,
		EnforcementEnd:   rule.EnforcementEnd,
	}

	switch rule.Type {
	case domain.RuleTypePermitRequired, domain.RuleTypeTimeLimit:
		if validity == ValidityValid {
			return Result{Kind: KindUnrestricted}, true
		}
		in.Validity = validity
	case domain.RuleTypeMetered, domain.RuleTypeLoadingZone:
		in.Validity = ValidityNoPermitRequired
	case domain.RuleTypeStreetCleaning, domain.RuleTypeNoParking, domain.RuleTypeTowAway:
		in.Validity = ValidityInvalid
		in.TimeLimit = 0
	default:
		return Result{}, false
	}

	return ParkUntil(in), true
}
