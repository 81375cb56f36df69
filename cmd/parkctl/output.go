package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/rules"
)

var (
	heading = color.New(color.Bold)
	faint   = color.New(color.Faint)
	good    = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	bad     = color.New(color.FgRed)
)

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func field(name string, format string, args ...interface{}) {
	faint.Printf("%-14s", name)
	fmt.Printf(format+"\n", args...)
}

func validityColor(v rules.Validity) *color.Color {
	switch v {
	case rules.ValidityValid, rules.ValidityNoPermitRequired:
		return good
	case rules.ValidityConditional, rules.ValidityUnknown:
		return warn
	default:
		return bad
	}
}

func deadlineColor(k rules.Kind) *color.Color {
	switch k {
	case rules.KindUnrestricted:
		return good
	case rules.KindProhibited:
		return bad
	default:
		return warn
	}
}

func describeRule(r domain.ParkingRule) string {
	var b strings.Builder
	b.WriteString(string(r.Type))
	if !r.EnforcementDays.IsEmpty() {
		b.WriteString(" " + strings.Join(r.EnforcementDays.Names(), ","))
	}
	if r.HasWindow() {
		fmt.Fprintf(&b, " %s-%s", r.EnforcementStart, r.EnforcementEnd)
	}
	if limit := r.TimeLimit(); limit > 0 {
		fmt.Fprintf(&b, " limit %s", limit)
	}
	return b.String()
}

func printIssues(errs, warnings []string) {
	for _, e := range errs {
		bad.Print("  error   ")
		fmt.Println(e)
	}
	for _, w := range warnings {
		warn.Print("  warning ")
		fmt.Println(w)
	}
}

// parseAt reads --at values in the rule time zone; empty means now.
func parseAt(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q, use RFC3339 or \"2006-01-02 15:04\"", s)
}

// parsePermit reads "A", "residential:A", "disabled" or "commercial".
func parsePermit(s string) (domain.ParkingPermit, error) {
	s = strings.TrimSpace(s)
	if kind, area, ok := strings.Cut(s, ":"); ok {
		return domain.ParkingPermit{Type: domain.PermitType(strings.ToLower(kind)), Area: strings.ToUpper(area)}, nil
	}
	switch t := domain.PermitType(strings.ToLower(s)); t {
	case domain.PermitTypeDisabled, domain.PermitTypeCommercial, domain.PermitTypeNone:
		return domain.ParkingPermit{Type: t}, nil
	}
	if domain.IsKnownPermitArea(s) {
		return domain.ParkingPermit{Type: domain.PermitTypeResidential, Area: strings.ToUpper(s)}, nil
	}
	return domain.ParkingPermit{}, fmt.Errorf("unknown permit %q", s)
}
