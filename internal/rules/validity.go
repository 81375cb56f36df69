package rules

import "github.com/sf-parking-zones/internal/domain"

// Validity - действует ли разрешение пользователя в зоне
type Validity string

const (
	ValidityValid            Validity = "valid"
	ValidityInvalid          Validity = "invalid"
	ValidityNoPermitRequired Validity = "no_permit_required"
	// ValidityConditional: no matching permit, but time-limited parking is
	// allowed for everyone.
	ValidityConditional Validity = "conditional"
	ValidityUnknown     Validity = "unknown"
)

// Exempt reports whether the holder may ignore permit and time-limit rules.
func (v Validity) Exempt() bool {
	return v == ValidityValid || v == ValidityNoPermitRequired
}

// EvaluateValidity decides whether the given permits cover zone.
func EvaluateValidity(zone domain.ParkingZone, permits []domain.ParkingPermit) Validity {
	if !zone.RequiresPermit {
		return ValidityNoPermitRequired
	}
	if zone.PermitArea == "" && len(zone.ValidPermitAreas) == 0 {
		return ValidityUnknown
	}
	for _, p := range permits {
		if zone.AcceptsPermit(p) {
			return ValidityValid
		}
	}
	for _, r := range zone.Rules {
		if (r.Type == domain.RuleTypeTimeLimit || r.Type == domain.RuleTypePermitRequired) && r.TimeLimit() > 0 {
			return ValidityConditional
		}
	}
	return ValidityInvalid
}
