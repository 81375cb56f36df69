package transform

import (
	"sort"
	"strings"

	"github.com/sf-parking-zones/internal/domain"
)

// SFMTA permit area neighborhoods
var neighborhoods = map[string][]string{
	"A":  {"Telegraph Hill", "North Beach"},
	"B":  {"Marina", "Cow Hollow"},
	"C":  {"Russian Hill"},
	"D":  {"Fisherman's Wharf"},
	"E":  {"Pacific Heights"},
	"F":  {"Presidio Heights"},
	"G":  {"Inner Richmond"},
	"H":  {"Outer Richmond"},
	"I":  {"Inner Sunset"},
	"J":  {"Outer Sunset"},
	"K":  {"Glen Park", "Diamond Heights"},
	"L":  {"Noe Valley"},
	"M":  {"Excelsior"},
	"N":  {"Potrero Hill"},
	"O":  {"Bernal Heights"},
	"P":  {"Bayview"},
	"Q":  {"Castro", "Upper Market", "Mission Dolores"},
	"R":  {"Haight-Ashbury", "Cole Valley"},
	"S":  {"Lower Haight"},
	"T":  {"SOMA"},
	"U":  {"Mission"},
	"V":  {"Dogpatch"},
	"W":  {"West Portal"},
	"X":  {"Forest Hill"},
	"Y":  {"St. Francis Wood"},
	"Z":  {"Parkside"},
	"AA": {"Visitacion Valley"},
	"BB": {"Oceanview"},
	"CC": {"Ingleside"},
	"DD": {"Sunnyside"},
	"EE": {"Miraloma Park"},
	"FF": {"Mt. Davidson"},
	"GG": {"Westwood Park"},
	"HH": {"Monterey Heights"},
}

// Neighborhoods returns the neighborhoods of a permit area, or an empty slice.
func Neighborhoods(code string) []string {
	n := neighborhoods[strings.ToUpper(code)]
	if n == nil {
		return []string{}
	}
	return append([]string(nil), n...)
}

// PermitAreas lists the distinct permit areas of zones, sorted by code.
func PermitAreas(zones []domain.ParkingZone) []domain.PermitArea {
	seen := make(map[string]bool)
	var out []domain.PermitArea
	for _, z := range zones {
		if z.PermitArea == "" || seen[z.PermitArea] {
			continue
		}
		seen[z.PermitArea] = true
		out = append(out, domain.PermitArea{
			Code:          z.PermitArea,
			Name:          "Area " + z.PermitArea,
			Neighborhoods: Neighborhoods(z.PermitArea),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Code) != len(out[j].Code) {
			return len(out[i].Code) < len(out[j].Code)
		}
		return out[i].Code < out[j].Code
	})
	return out
}
