package rules

import (
	"fmt"
	"time"
)

// DescribeDeadline renders a deadline for display relative to now.
func DescribeDeadline(r Result, now time.Time) string {
	switch r.Kind {
	case KindUnrestricted:
		return "No restrictions"
	case KindProhibited:
		return "No parking now"
	}

	until := r.Until.In(now.Location())
	clock := until.Format("3:04 PM")
	var when string
	switch days := dayDiff(now, until); {
	case days == 0:
		when = clock
	case days == 1:
		when = "tomorrow " + clock
	case days > 1 && days < 7:
		when = until.Weekday().String() + " " + clock
	default:
		when = until.Format("Jan 2") + " " + clock
	}

	return fmt.Sprintf("Park until %s", when)
}

// DescribeRemaining renders the time left, e.g. "1h 45m".
func DescribeRemaining(r Result, now time.Time) string {
	if r.Unrestricted() {
		return "unlimited"
	}
	d := r.Until.Sub(now)
	if d <= 0 {
		return "0m"
	}
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func dayDiff(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 12, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 12, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
