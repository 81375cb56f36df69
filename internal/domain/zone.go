package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ZoneType - тип зоны парковки
type ZoneType string

const (
	ZoneTypeResidentialPermit ZoneType = "rpp"
	ZoneTypeMetered           ZoneType = "metered"
	ZoneTypeTimeLimited       ZoneType = "time_limited"
	ZoneTypeNoParking         ZoneType = "no_parking"
	ZoneTypeTowAway           ZoneType = "tow_away"
	ZoneTypeCommercial        ZoneType = "commercial"
	ZoneTypeMixed             ZoneType = "mixed"
)

// ZoneMetadata describes where a zone's data came from.
type ZoneMetadata struct {
	DataSource  string    `json:"dataSource,omitempty"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
	Accuracy    string    `json:"accuracy,omitempty"`
}

// ParkingZone is a mapped area with its boundary polygons and rules.
type ParkingZone struct {
	ID               string        `json:"id"`
	CityCode         string        `json:"cityCode"`
	DisplayName      string        `json:"displayName"`
	Type             ZoneType      `json:"zoneType"`
	PermitArea       string        `json:"permitArea,omitempty"`
	ValidPermitAreas []string      `json:"validPermitAreas,omitempty"`
	RequiresPermit   bool          `json:"requiresPermit"`
	Restrictiveness  int           `json:"restrictiveness"`
	Boundaries       []Ring        `json:"boundaries"`
	Rules            []ParkingRule `json:"rules"`
	Metadata         *ZoneMetadata `json:"metadata,omitempty"`
}

// UnmarshalJSON also accepts the older single-polygon "boundary" field.
func (z *ParkingZone) UnmarshalJSON(data []byte) error {
	type alias ParkingZone
	var raw struct {
		alias
		Boundary Ring `json:"boundary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*z = ParkingZone(raw.alias)
	if len(z.Boundaries) == 0 && len(raw.Boundary) > 0 {
		z.Boundaries = []Ring{raw.Boundary}
	}
	return nil
}

// Name is the label shown to the user.
func (z ParkingZone) Name() string {
	if z.DisplayName != "" {
		return z.DisplayName
	}
	if z.PermitArea != "" {
		return "Area " + z.PermitArea
	}
	return z.ID
}

// AcceptsPermit reports whether the permit is valid in this zone.
func (z ParkingZone) AcceptsPermit(p ParkingPermit) bool {
	if p.Type != PermitTypeResidential || p.Area == "" {
		return false
	}
	area := strings.ToUpper(strings.TrimSpace(p.Area))
	if strings.EqualFold(z.PermitArea, area) {
		return true
	}
	for _, a := range z.ValidPermitAreas {
		if strings.EqualFold(a, area) {
			return true
		}
	}
	return false
}

// Contains reports whether c is inside any boundary ring.
func (z ParkingZone) Contains(c Coordinate) bool {
	for _, ring := range z.Boundaries {
		if ring.Contains(c) {
			return true
		}
	}
	return false
}

// BoundingBox covers every boundary ring.
func (z ParkingZone) BoundingBox() BoundingBox {
	var b BoundingBox
	for _, ring := range z.Boundaries {
		for _, c := range ring {
			b = b.Extend(c)
		}
	}
	return b
}

// PointCount is the total vertex count over all rings.
func (z ParkingZone) PointCount() int {
	n := 0
	for _, ring := range z.Boundaries {
		n += len(ring)
	}
	return n
}

// Clone deep-copies boundaries and rules.
func (z ParkingZone) Clone() ParkingZone {
	c := z
	if z.Boundaries != nil {
		c.Boundaries = make([]Ring, len(z.Boundaries))
		for i, r := range z.Boundaries {
			c.Boundaries[i] = r.Clone()
		}
	}
	c.Rules = CloneRules(z.Rules)
	if z.ValidPermitAreas != nil {
		c.ValidPermitAreas = append([]string(nil), z.ValidPermitAreas...)
	}
	if z.Metadata != nil {
		m := *z.Metadata
		c.Metadata = &m
	}
	return c
}

// PermitArea is a lettered residential permit area.
type PermitArea struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Neighborhoods []string `json:"neighborhoods"`
}

// City describes the dataset's coverage.
type City struct {
	Code   string      `json:"code"`
	Name   string      `json:"name"`
	State  string      `json:"state"`
	Bounds BoundingBox `json:"bounds"`
}

// Dataset is the zone asset bundle consumed by lookups.
type Dataset struct {
	Version     string        `json:"version"`
	GeneratedAt time.Time     `json:"generatedAt"`
	City        City          `json:"city"`
	PermitAreas []PermitArea  `json:"permitAreas"`
	Zones       []ParkingZone `json:"zones"`
}

// IsKnownPermitArea reports whether code is an SFMTA RPP area: A through Z
// plus the doubled letters AA through LL.
func IsKnownPermitArea(code string) bool {
	c := strings.ToUpper(strings.TrimSpace(code))
	switch len(c) {
	case 1:
		return c[0] >= 'A' && c[0] <= 'Z'
	case 2:
		return c[0] == c[1] && c[0] >= 'A' && c[0] <= 'L'
	default:
		return false
	}
}
