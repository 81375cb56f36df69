package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sf-parking-zones/internal/domain"
)

func TestWindow_IsEnforced(t *testing.T) {
	rule := domain.ParkingRule{
		EnforcementDays:  domain.ParseDayCodes("M-Sa"),
		EnforcementStart: tod(9, 0),
		EnforcementEnd:   tod(18, 0),
	}

	assert.True(t, IsEnforced(rule, at(8, 9, 0)), "saturday 9am")
	assert.False(t, IsEnforced(rule, at(9, 12, 0)), "sunday noon")
	assert.False(t, IsEnforced(rule, at(4, 8, 59)))
	assert.False(t, IsEnforced(rule, at(4, 18, 0)))
}

func TestNextEnforcementStart(t *testing.T) {
	rule := domain.ParkingRule{
		EnforcementDays:  domain.NewDaySet(time.Thursday),
		EnforcementStart: tod(6, 0),
		EnforcementEnd:   tod(8, 0),
	}

	next, ok := NextEnforcementStart(rule, at(6, 6, 0))
	require.True(t, ok)
	assert.Equal(t, at(13, 6, 0), next, "strictly after")

	next, ok = NextEnforcementStart(rule, at(4, 12, 0))
	require.True(t, ok)
	assert.Equal(t, at(6, 6, 0), next)
}

func TestCurrentEnforcementEnd(t *testing.T) {
	rule := domain.ParkingRule{EnforcementDays: domain.Weekdays}

	end, ok := CurrentEnforcementEnd(rule, at(4, 10, 0))
	require.True(t, ok)
	assert.Equal(t, at(8, 0, 0), end)

	_, ok = CurrentEnforcementEnd(domain.ParkingRule{}, at(4, 10, 0))
	assert.False(t, ok, "an always-on rule has no end")

	_, ok = CurrentEnforcementEnd(rule, at(8, 10, 0))
	assert.False(t, ok, "not enforced on saturday")
}

func TestWindow_FollowsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skip("tzdata not available")
	}
	w := Window{Days: domain.Weekdays, Start: tod(8, 0), End: tod(18, 0)}

	// 16:30 UTC on a Tuesday is 08:30 in San Francisco.
	now := time.Date(2025, time.January, 7, 16, 30, 0, 0, time.UTC).In(loc)
	assert.True(t, w.IsEnforced(now))
	assert.False(t, w.IsEnforced(time.Date(2025, time.January, 7, 15, 30, 0, 0, time.UTC).In(loc)))
}
