package rules

import (
	"time"

	"github.com/sf-parking-zones/internal/domain"
)

// searchDays bounds how far ahead NextStart looks.
const searchDays = 8

// Window is when a rule is enforced. An empty day set means every day; a
// nil or equal start and end means all day; start after end is an overnight
// window belonging to the day it starts on.
type Window struct {
	Days  domain.DaySet
	Start *domain.TimeOfDay
	End   *domain.TimeOfDay
}

// WindowOf extracts the enforcement window of a rule.
func WindowOf(r domain.ParkingRule) Window {
	return Window{Days: r.EnforcementDays, Start: r.EnforcementStart, End: r.EnforcementEnd}
}

func (w Window) allDay() bool {
	return w.Start == nil || w.End == nil || w.Start.Minutes() == w.End.Minutes()
}

func (w Window) appliesOn(d time.Weekday) bool {
	return w.Days.IsEmpty() || w.Days.Has(d)
}

// Always reports whether the window never lapses.
func (w Window) Always() bool {
	return w.allDay() && (w.Days.IsEmpty() || w.Days == domain.EveryDay)
}

// span returns the enforcement interval owned by the calendar day of day.
func (w Window) span(day time.Time) (time.Time, time.Time, bool) {
	if !w.appliesOn(day.Weekday()) {
		return time.Time{}, time.Time{}, false
	}
	midnight := domain.TimeOfDay{}.On(day)
	if w.allDay() {
		return midnight, domain.TimeOfDay{}.On(day.AddDate(0, 0, 1)), true
	}
	start := w.Start.On(day)
	if w.Start.Minutes() > w.End.Minutes() {
		return start, w.End.On(day.AddDate(0, 0, 1)), true
	}
	return start, w.End.On(day), true
}

// Active returns the enforcement interval containing t. Back-to-back
// intervals are merged, so an all-day Monday to Friday window active on
// Tuesday ends at Saturday midnight.
func (w Window) Active(t time.Time) (start, end time.Time, ok bool) {
	for offset := -1; offset <= 0; offset++ {
		day := t.AddDate(0, 0, offset)
		s, e, applies := w.span(day)
		if !applies || t.Before(s) || !t.Before(e) {
			continue
		}
		start, end, ok = s, e, true
		break
	}
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	if w.Always() {
		return start, time.Time{}, true
	}
	for i := 0; i < 7; i++ {
		ns, ne, applies := w.span(end)
		if !applies || !ns.Equal(end) {
			break
		}
		end = ne
	}
	return start, end, true
}

// IsEnforced reports whether t falls inside the window.
func (w Window) IsEnforced(t time.Time) bool {
	_, _, ok := w.Active(t)
	return ok
}

// NextStart is the earliest enforcement start strictly after t.
func (w Window) NextStart(t time.Time) (time.Time, bool) {
	var best time.Time
	found := false
	for offset := 0; offset <= searchDays; offset++ {
		s, _, applies := w.span(t.AddDate(0, 0, offset))
		if !applies || !s.After(t) {
			continue
		}
		if !found || s.Before(best) {
			best, found = s, true
		}
	}
	return best, found
}

// IsEnforced reports whether rule r is enforced at t.
func IsEnforced(r domain.ParkingRule, t time.Time) bool {
	return WindowOf(r).IsEnforced(t)
}

// NextEnforcementStart is the next time r starts being enforced after t.
func NextEnforcementStart(r domain.ParkingRule, t time.Time) (time.Time, bool) {
	return WindowOf(r).NextStart(t)
}

// CurrentEnforcementEnd is when the enforcement period containing t ends.
// ok is false when r is not enforced at t or never lapses.
func CurrentEnforcementEnd(r domain.ParkingRule, t time.Time) (time.Time, bool) {
	_, end, ok := WindowOf(r).Active(t)
	if !ok || end.IsZero() {
		return time.Time{}, false
	}
	return end, true
}
