package rules

import (
	"time"

	"github.com/sf-parking-zones/internal/domain"
)

// Kind says what ends the parking period.
type Kind string

const (
	KindUnrestricted      Kind = "unrestricted"
	KindTimeLimit         Kind = "time_limit"
	KindEnforcementEnds   Kind = "enforcement_ends"
	KindEnforcementStarts Kind = "enforcement_starts"
	KindProhibited        Kind = "prohibited"
)

// Input is everything ParkUntil needs for a single rule.
type Input struct {
	Now              time.Time
	TimeLimit        time.Duration
	EnforcementDays  domain.DaySet
	EnforcementStart *domain.TimeOfDay
	EnforcementEnd   *domain.TimeOfDay
	Validity         Validity
}

// Result is a computed deadline. Until is zero for KindUnrestricted.
type Result struct {
	Kind   Kind      `json:"kind"`
	Until  time.Time `json:"until,omitzero"`
	RuleID string    `json:"ruleId,omitempty"`
	// ResumesAt is the next enforcement start after an enforcement_ends
	// deadline, when known.
	ResumesAt time.Time `json:"resumesAt,omitzero"`
}

// Unrestricted reports whether there is no deadline.
func (r Result) Unrestricted() bool {
	return r.Kind == KindUnrestricted
}

// Before reports whether r ends strictly earlier than other. Unrestricted
// results end never.
func (r Result) Before(other Result) bool {
	if r.Unrestricted() {
		return false
	}
	if other.Unrestricted() {
		return true
	}
	return r.Until.Before(other.Until)
}

// ParkUntil computes when parking must end under a single rule.
func ParkUntil(in Input) Result {
	if in.Validity.Exempt() && in.TimeLimit <= 0 {
		return Result{Kind: KindUnrestricted}
	}

	w := Window{Days: in.EnforcementDays, Start: in.EnforcementStart, End: in.EnforcementEnd}
	_, end, inside := w.Active(in.Now)
	if !inside {
		next, ok := w.NextStart(in.Now)
		if !ok {
			return Result{Kind: KindUnrestricted}
		}
		return Result{Kind: KindEnforcementStarts, Until: next}
	}

	if in.TimeLimit <= 0 {
		return Result{Kind: KindProhibited, Until: in.Now}
	}

	expiry := in.Now.Add(in.TimeLimit)
	if end.IsZero() || expiry.Before(end) {
		return Result{Kind: KindTimeLimit, Until: expiry}
	}
	res := Result{Kind: KindEnforcementEnds, Until: end}
	if next, ok := w.NextStart(end); ok {
		res.ResumesAt = next
	}
	return res
}
