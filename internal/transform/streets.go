package transform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var streetSuffixes = map[string]string{
	"ST":   "Street",
	"AVE":  "Avenue",
	"AV":   "Avenue",
	"BLVD": "Boulevard",
	"DR":   "Drive",
	"PL":   "Place",
	"TER":  "Terrace",
	"CT":   "Court",
	"LN":   "Lane",
	"RD":   "Road",
	"HWY":  "Highway",
	"CIR":  "Circle",
	"ALY":  "Alley",
	"PLZ":  "Plaza",
}

// NormalizeStreet turns DataSF street names like "03RD ST" into "3rd Street".
func NormalizeStreet(name string) string {
	fields := strings.Fields(strings.ToUpper(name))
	if len(fields) == 0 {
		return ""
	}

	last := strings.TrimSuffix(fields[len(fields)-1], ".")
	if full, ok := streetSuffixes[last]; ok && len(fields) > 1 {
		fields[len(fields)-1] = full
	}
	for i, f := range fields {
		if len(f) > 1 && f[0] == '0' && f[1] >= '0' && f[1] <= '9' {
			fields[i] = strings.TrimLeft(f, "0")
		}
	}
	// Caser хранит состояние, поэтому свой на каждый вызов
	return cases.Title(language.English).String(strings.Join(fields, " "))
}
