package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/pkg/errors"
	"github.com/sf-parking-zones/internal/repository/asset"
	"github.com/sf-parking-zones/internal/rules"
	"github.com/sf-parking-zones/internal/usecase"
	"github.com/sf-parking-zones/internal/usecase/dto"
)

func sfLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

func square(south, west, north, east float64) domain.Ring {
	return domain.Ring{
		{Latitude: south, Longitude: west},
		{Latitude: south, Longitude: east},
		{Latitude: north, Longitude: east},
		{Latitude: north, Longitude: west},
		{Latitude: south, Longitude: west},
	}
}

func intPtr(v int) *int { return &v }

// testDataset holds area A and a metered block inside it.
func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Version: "20250304",
		City:    domain.City{Code: "sf", Name: "San Francisco", State: "CA", Bounds: domain.SFBounds},
		Zones: []domain.ParkingZone{
			{
				ID:               "sf_rpp_a_001",
				CityCode:         "sf",
				DisplayName:      "Area A",
				Type:             domain.ZoneTypeResidentialPermit,
				PermitArea:       "A",
				ValidPermitAreas: []string{"A"},
				RequiresPermit:   true,
				Restrictiveness:  8,
				Boundaries:       []domain.Ring{square(37.800, -122.410, 37.806, -122.400)},
				Rules: []domain.ParkingRule{{
					ID:               "a_rule_001",
					Type:             domain.RuleTypePermitRequired,
					EnforcementDays:  domain.ParseDayCodes("M-Sa"),
					EnforcementStart: &domain.TimeOfDay{Hour: 8},
					EnforcementEnd:   &domain.TimeOfDay{Hour: 18},
					TimeLimitMinutes: intPtr(120),
				}},
			},
			{
				ID:              "sf_meter_001",
				CityCode:        "sf",
				Type:            domain.ZoneTypeMetered,
				Restrictiveness: 9,
				Boundaries:      []domain.Ring{square(37.802, -122.406, 37.804, -122.404)},
				Rules: []domain.ParkingRule{{
					ID:               "meter_rule_001",
					Type:             domain.RuleTypeMetered,
					EnforcementDays:  domain.Weekdays,
					EnforcementStart: &domain.TimeOfDay{Hour: 9},
					EnforcementEnd:   &domain.TimeOfDay{Hour: 18},
					TimeLimitMinutes: intPtr(60),
				}},
			},
		},
	}
}

func newLookup(t *testing.T, settings *MockSettingsRepository) *usecase.LookupUseCase {
	t.Helper()
	logger := zap.NewNop()
	zones := asset.NewZoneRepository(testDataset(), logger)
	calc := rules.NewCalculator(sfLocation(t), logger)
	if settings == nil {
		return usecase.NewLookupUseCase(zones, nil, calc, logger)
	}
	return usecase.NewLookupUseCase(zones, settings, calc, logger)
}

func TestLookupUseCase_Lookup(t *testing.T) {
	ctx := context.Background()
	loc := sfLocation(t)
	tuesday9am := time.Date(2025, 3, 4, 9, 0, 0, 0, loc)

	t.Run("time limit without permit", func(t *testing.T) {
		uc := newLookup(t, nil)

		resp, err := uc.Lookup(ctx, dto.LookupRequest{
			Lat: 37.801, Lon: -122.409, Permits: []domain.ParkingPermit{}, At: tuesday9am,
		})

		require.NoError(t, err)
		assert.Equal(t, "sf_rpp_a_001", resp.Zone.ID)
		assert.Equal(t, "Area A", resp.Zone.Name)
		assert.Equal(t, rules.ValidityConditional, resp.Validity)
		assert.Equal(t, rules.KindTimeLimit, resp.ParkUntil.Kind)
		assert.True(t, resp.ParkUntil.Until.Equal(time.Date(2025, 3, 4, 11, 0, 0, 0, loc)))
		assert.Equal(t, "a_rule_001", resp.ParkUntil.RuleID)
		assert.Equal(t, "Park until 11:00 AM", resp.ParkUntil.Description)
		assert.Equal(t, "2h 0m", resp.ParkUntil.Remaining)
		assert.Len(t, resp.ActiveRules, 1)
		assert.Empty(t, resp.Overlapping)
	})

	t.Run("matching permit is unrestricted", func(t *testing.T) {
		uc := newLookup(t, nil)

		resp, err := uc.Lookup(ctx, dto.LookupRequest{
			Lat: 37.801, Lon: -122.409, At: tuesday9am,
			Permits: []domain.ParkingPermit{{Type: domain.PermitTypeResidential, Area: "A"}},
		})

		require.NoError(t, err)
		assert.Equal(t, rules.ValidityValid, resp.Validity)
		assert.True(t, resp.ParkUntil.Unrestricted())
		assert.Equal(t, "No restrictions", resp.ParkUntil.Description)
	})

	t.Run("stored permits are used when none are given", func(t *testing.T) {
		settings := &MockSettingsRepository{}
		settings.On("Load", ctx).Return(&domain.DeviceSettings{
			Permits: []domain.ParkingPermit{{Type: domain.PermitTypeResidential, Area: "A"}},
		}, nil).Once()
		uc := newLookup(t, settings)

		resp, err := uc.Lookup(ctx, dto.LookupRequest{Lat: 37.801, Lon: -122.409, At: tuesday9am})

		require.NoError(t, err)
		assert.Equal(t, rules.ValidityValid, resp.Validity)
		settings.AssertExpectations(t)
	})

	t.Run("unreadable settings fall back to no permits", func(t *testing.T) {
		settings := &MockSettingsRepository{}
		settings.On("Load", ctx).Return(nil, fmt.Errorf("disk error")).Once()
		uc := newLookup(t, settings)

		resp, err := uc.Lookup(ctx, dto.LookupRequest{Lat: 37.801, Lon: -122.409, At: tuesday9am})

		require.NoError(t, err)
		assert.Equal(t, rules.ValidityConditional, resp.Validity)
	})

	t.Run("outside enforcement waits for next start", func(t *testing.T) {
		uc := newLookup(t, nil)
		sunday := time.Date(2025, 3, 9, 10, 0, 0, 0, loc)

		resp, err := uc.Lookup(ctx, dto.LookupRequest{
			Lat: 37.801, Lon: -122.409, Permits: []domain.ParkingPermit{}, At: sunday,
		})

		require.NoError(t, err)
		assert.Equal(t, rules.KindEnforcementStarts, resp.ParkUntil.Kind)
		assert.True(t, resp.ParkUntil.Until.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, loc)))
		assert.Equal(t, "Park until tomorrow 8:00 AM", resp.ParkUntil.Description)
	})

	t.Run("limit outlasting enforcement ends with it", func(t *testing.T) {
		uc := newLookup(t, nil)
		saturday := time.Date(2025, 3, 8, 17, 0, 0, 0, loc)

		resp, err := uc.Lookup(ctx, dto.LookupRequest{
			Lat: 37.801, Lon: -122.409, Permits: []domain.ParkingPermit{}, At: saturday,
		})

		require.NoError(t, err)
		assert.Equal(t, rules.KindEnforcementEnds, resp.ParkUntil.Kind)
		assert.True(t, resp.ParkUntil.Until.Equal(time.Date(2025, 3, 8, 18, 0, 0, 0, loc)))
		assert.True(t, resp.ParkUntil.ResumesAt.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, loc)))
	})

	t.Run("overlapping zones report the most restrictive", func(t *testing.T) {
		uc := newLookup(t, nil)

		resp, err := uc.Lookup(ctx, dto.LookupRequest{
			Lat: 37.803, Lon: -122.405, Permits: []domain.ParkingPermit{}, At: tuesday9am.Add(30 * time.Minute),
		})

		require.NoError(t, err)
		assert.Equal(t, "sf_meter_001", resp.Zone.ID)
		assert.Equal(t, rules.ValidityNoPermitRequired, resp.Validity)
		assert.Equal(t, rules.KindTimeLimit, resp.ParkUntil.Kind)
		assert.True(t, resp.ParkUntil.Until.Equal(time.Date(2025, 3, 4, 10, 30, 0, 0, loc)))
		require.Len(t, resp.Overlapping, 1)
		assert.Equal(t, "sf_rpp_a_001", resp.Overlapping[0].ID)
	})

	t.Run("outside coverage", func(t *testing.T) {
		uc := newLookup(t, nil)

		_, err := uc.Lookup(ctx, dto.LookupRequest{Lat: 37.70, Lon: -122.20, At: tuesday9am})

		assert.ErrorIs(t, err, errors.ErrOutsideCoverage)
	})

	t.Run("unknown area", func(t *testing.T) {
		uc := newLookup(t, nil)

		_, err := uc.Lookup(ctx, dto.LookupRequest{Lat: 37.75, Lon: -122.45, At: tuesday9am})

		assert.ErrorIs(t, err, errors.ErrUnknownArea)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		uc := newLookup(t, nil)

		_, err := uc.Lookup(ctx, dto.LookupRequest{Lat: 100, Lon: -122.45})

		assert.ErrorIs(t, err, errors.ErrInvalidCoordinates)
	})

	t.Run("repository failure", func(t *testing.T) {
		zones := &MockZoneRepository{}
		zones.On("City", ctx).Return(domain.City{Bounds: domain.SFBounds}, nil)
		zones.On("FindByPoint", ctx, mock.AnythingOfType("domain.Coordinate")).Return(nil, fmt.Errorf("index corrupted"))
		uc := usecase.NewLookupUseCase(zones, nil, rules.NewCalculator(loc, zap.NewNop()), zap.NewNop())

		_, err := uc.Lookup(ctx, dto.LookupRequest{Lat: 37.801, Lon: -122.409, At: tuesday9am})

		assert.ErrorIs(t, err, errors.ErrDataLoadFailed)
		zones.AssertExpectations(t)
	})
}

func TestLookupUseCase_ParkUntil(t *testing.T) {
	ctx := context.Background()
	loc := sfLocation(t)
	uc := newLookup(t, nil)

	t.Run("two hours on a weekday morning", func(t *testing.T) {
		d, err := uc.ParkUntil(ctx, dto.ParkUntilRequest{
			At:               time.Date(2025, 3, 4, 9, 0, 0, 0, loc),
			TimeLimitMinutes: 120,
			Days:             "M-F",
			Start:            "8:00",
			End:              "18:00",
		})

		require.NoError(t, err)
		assert.Equal(t, rules.KindTimeLimit, d.Kind)
		assert.True(t, d.Until.Equal(time.Date(2025, 3, 4, 11, 0, 0, 0, loc)))
	})

	t.Run("valid permit without limit", func(t *testing.T) {
		d, err := uc.ParkUntil(ctx, dto.ParkUntilRequest{
			At:       time.Date(2025, 3, 4, 9, 0, 0, 0, loc),
			Days:     "M-F",
			Start:    "800",
			End:      "1800",
			Validity: string(rules.ValidityValid),
		})

		require.NoError(t, err)
		assert.True(t, d.Unrestricted())
	})

	t.Run("no limit means no parking while enforced", func(t *testing.T) {
		d, err := uc.ParkUntil(ctx, dto.ParkUntilRequest{
			At:    time.Date(2025, 3, 4, 9, 0, 0, 0, loc),
			Start: "8:00",
			End:   "18:00",
		})

		require.NoError(t, err)
		assert.Equal(t, rules.KindProhibited, d.Kind)
		assert.Equal(t, "No parking now", d.Description)
	})

	t.Run("bad input", func(t *testing.T) {
		for _, req := range []dto.ParkUntilRequest{
			{Days: "someday"},
			{Start: "noon"},
			{TimeLimitMinutes: -5},
			{Validity: "maybe"},
		} {
			_, err := uc.ParkUntil(ctx, req)
			assert.ErrorIs(t, err, errors.ErrInvalidRequest, "%+v", req)
		}
	})
}

func TestLocationError(t *testing.T) {
	assert.ErrorIs(t, usecase.LocationError(usecase.LocationDenied), errors.ErrLocationPermissionDenied)
	assert.ErrorIs(t, usecase.LocationError(usecase.LocationRestricted), errors.ErrLocationPermissionDenied)
	assert.ErrorIs(t, usecase.LocationError(usecase.LocationTimeout), errors.ErrLocationUnavailable)
	assert.True(t, usecase.LocationError(usecase.LocationUnavailable).Retryable())
}
