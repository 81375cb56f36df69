package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
)

func intPtr(i int) *int {
	return &i
}

func areaAZone() domain.ParkingZone {
	return domain.ParkingZone{
		ID:             "sf_rpp_a_001",
		Type:           domain.ZoneTypeResidentialPermit,
		PermitArea:     "A",
		RequiresPermit: true,
		Rules: []domain.ParkingRule{
			{
				ID:               "a_permit",
				Type:             domain.RuleTypePermitRequired,
				EnforcementDays:  domain.Weekdays,
				EnforcementStart: tod(8, 0),
				EnforcementEnd:   tod(18, 0),
				TimeLimitMinutes: intPtr(120),
			},
			{
				ID:               "a_cleaning",
				Type:             domain.RuleTypeStreetCleaning,
				EnforcementDays:  domain.NewDaySet(time.Tuesday),
				EnforcementStart: tod(12, 0),
				EnforcementEnd:   tod(14, 0),
			},
		},
	}
}

func TestCalculator_Evaluate(t *testing.T) {
	calc := NewCalculator(time.UTC, zap.NewNop())
	permitA := []domain.ParkingPermit{{Type: domain.PermitTypeResidential, Area: "A"}}

	tests := []struct {
		name     string
		permits  []domain.ParkingPermit
		now      time.Time
		validity Validity
		kind     Kind
		until    time.Time
		ruleID   string
	}{
		{
			name:     "visitor gets the two hour limit",
			now:      at(4, 9, 0),
			validity: ValidityConditional,
			kind:     KindTimeLimit,
			until:    at(4, 11, 0),
			ruleID:   "a_permit",
		},
		{
			name:     "visitor at 11 is cut short by street cleaning",
			now:      at(4, 11, 0),
			validity: ValidityConditional,
			kind:     KindEnforcementStarts,
			until:    at(4, 12, 0),
			ruleID:   "a_cleaning",
		},
		{
			name:     "resident must move for street cleaning",
			permits:  permitA,
			now:      at(4, 9, 0),
			validity: ValidityValid,
			kind:     KindEnforcementStarts,
			until:    at(4, 12, 0),
			ruleID:   "a_cleaning",
		},
		{
			name:     "resident during street cleaning",
			permits:  permitA,
			now:      at(4, 12, 30),
			validity: ValidityValid,
			kind:     KindProhibited,
			until:    at(4, 12, 30),
			ruleID:   "a_cleaning",
		},
		{
			name:     "resident on wednesday waits for next cleaning",
			permits:  permitA,
			now:      at(5, 9, 0),
			validity: ValidityValid,
			kind:     KindEnforcementStarts,
			until:    at(11, 12, 0),
			ruleID:   "a_cleaning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := calc.Evaluate(areaAZone(), tt.permits, tt.now)
			assert.Equal(t, tt.validity, ev.Validity)
			assert.Equal(t, tt.kind, ev.Deadline.Kind)
			assert.Equal(t, tt.until, ev.Deadline.Until)
			assert.Equal(t, tt.ruleID, ev.Deadline.RuleID)
		})
	}
}

func TestCalculator_ActiveRulesOrdered(t *testing.T) {
	calc := NewCalculator(time.UTC, zap.NewNop())

	ev := calc.Evaluate(areaAZone(), nil, at(4, 12, 30))

	require.Len(t, ev.Active, 2)
	assert.Equal(t, domain.RuleTypeStreetCleaning, ev.Active[0].Type)
	assert.Equal(t, domain.RuleTypePermitRequired, ev.Active[1].Type)
	assert.Len(t, ev.PerRule, 2)
}

func TestCalculator_MeteredAppliesToEveryone(t *testing.T) {
	calc := NewCalculator(time.UTC, zap.NewNop())
	zone := domain.ParkingZone{
		ID:   "meters",
		Type: domain.ZoneTypeMetered,
		Rules: []domain.ParkingRule{{
			ID:               "m",
			Type:             domain.RuleTypeMetered,
			EnforcementDays:  domain.ParseDayCodes("M-Sa"),
			EnforcementStart: tod(9, 0),
			EnforcementEnd:   tod(18, 0),
			TimeLimitMinutes: intPtr(60),
		}},
	}

	ev := calc.Evaluate(zone, []domain.ParkingPermit{{Type: domain.PermitTypeResidential, Area: "A"}}, at(8, 10, 0))
	assert.Equal(t, ValidityNoPermitRequired, ev.Validity)
	assert.Equal(t, KindTimeLimit, ev.Deadline.Kind)
	assert.Equal(t, at(8, 11, 0), ev.Deadline.Until)

	zone.Rules[0].TimeLimitMinutes = nil
	ev = calc.Evaluate(zone, nil, at(8, 10, 0))
	assert.Equal(t, KindUnrestricted, ev.Deadline.Kind, "pay and stay")
}

func TestCalculator_ConvertsToLocation(t *testing.T) {
	loc := time.FixedZone("PST", -8*60*60)
	calc := NewCalculator(loc, zap.NewNop())

	// 17:00 UTC Tuesday is 09:00 local.
	ev := calc.Evaluate(areaAZone(), nil, time.Date(2025, time.March, 4, 17, 0, 0, 0, time.UTC))

	assert.Equal(t, KindTimeLimit, ev.Deadline.Kind)
	assert.Equal(t, 11, ev.Deadline.Until.Hour())
	assert.Equal(t, loc, ev.Deadline.Until.Location())
}

func TestCalculator_NoRules(t *testing.T) {
	calc := NewCalculator(nil, zap.NewNop())
	ev := calc.Evaluate(domain.ParkingZone{ID: "empty"}, nil, at(4, 9, 0))
	assert.True(t, ev.Deadline.Unrestricted())
	assert.Empty(t, ev.Active)
}

func TestMatchRules_SkipsPermitRulesForHolders(t *testing.T) {
	zone := areaAZone()

	assert.Len(t, MatchRules(zone, ValidityValid, at(4, 12, 30)), 1)
	assert.Len(t, MatchRules(zone, ValidityConditional, at(4, 12, 30)), 2)

	top, ok := MostRestrictive(zone.Rules, at(4, 12, 30))
	require.True(t, ok)
	assert.Equal(t, "a_cleaning", top.ID)

	_, ok = MostRestrictive(zone.Rules, at(9, 12, 30))
	assert.False(t, ok)
}
