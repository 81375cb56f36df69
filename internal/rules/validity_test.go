package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sf-parking-zones/internal/domain"
)

func TestEvaluateValidity(t *testing.T) {
	noLimit := domain.ParkingZone{
		RequiresPermit: true,
		PermitArea:     "B",
		Rules:          []domain.ParkingRule{{Type: domain.RuleTypePermitRequired}},
	}

	tests := []struct {
		name     string
		zone     domain.ParkingZone
		permits  []domain.ParkingPermit
		expected Validity
	}{
		{"no permit needed", domain.ParkingZone{Type: domain.ZoneTypeMetered}, nil, ValidityNoPermitRequired},
		{"matching permit", areaAZone(), []domain.ParkingPermit{{Type: domain.PermitTypeResidential, Area: "a"}}, ValidityValid},
		{"other area with time limit", areaAZone(), []domain.ParkingPermit{{Type: domain.PermitTypeResidential, Area: "B"}}, ValidityConditional},
		{"no permit with time limit", areaAZone(), nil, ValidityConditional},
		{"no permit and no limit", noLimit, nil, ValidityInvalid},
		{"disabled placard is not an area permit", noLimit, []domain.ParkingPermit{{Type: domain.PermitTypeDisabled, Area: "B"}}, ValidityInvalid},
		{"permit zone without area", domain.ParkingZone{RequiresPermit: true}, nil, ValidityUnknown},
		{"multi-area zone", domain.ParkingZone{RequiresPermit: true, PermitArea: "C", ValidPermitAreas: []string{"C", "D"}}, []domain.ParkingPermit{{Type: domain.PermitTypeResidential, Area: "D"}}, ValidityValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EvaluateValidity(tt.zone, tt.permits))
		})
	}
}
