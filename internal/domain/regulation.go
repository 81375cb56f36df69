package domain

// BlockfaceRegulation is one street-segment regulation from DataSF.
type BlockfaceRegulation struct {
	Street            string     `json:"street"`
	FromStreet        string     `json:"from"`
	ToStreet          string     `json:"to"`
	Side              string     `json:"side"`
	Type              RuleType   `json:"type"`
	PermitAreas       []string   `json:"permitZones,omitempty"`
	TimeLimitMinutes  *int       `json:"timeLimit,omitempty"`
	EnforcementDays   DaySet     `json:"enforcementDays"`
	EnforcementStart  *TimeOfDay `json:"enforcementStart,omitempty"`
	EnforcementEnd    *TimeOfDay `json:"enforcementEnd,omitempty"`
	SpecialConditions string     `json:"specialConditions,omitempty"`
}

// ParkingMeter is a single meter post.
type ParkingMeter struct {
	PostID           string  `json:"id"`
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lon"`
	Street           string  `json:"street"`
	StreetNumber     string  `json:"streetNum,omitempty"`
	CapColor         string  `json:"capColor"`
	TimeLimitMinutes *int    `json:"timeLimit,omitempty"`
	RateArea         string  `json:"rateArea,omitempty"`
}

// HasLocation reports whether the meter has usable coordinates.
func (m ParkingMeter) HasLocation() bool {
	return m.Latitude != 0 || m.Longitude != 0
}
