package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/domain/repository"
	"github.com/sf-parking-zones/internal/pkg/errors"
	"github.com/sf-parking-zones/internal/pkg/validator"
	"github.com/sf-parking-zones/internal/rules"
	"github.com/sf-parking-zones/internal/usecase/dto"
)

// LookupUseCase - поиск зоны и расчёт "park until" для точки
type LookupUseCase struct {
	zones    repository.ZoneRepository
	settings repository.SettingsRepository
	calc     *rules.Calculator
	logger   *zap.Logger
	now      func() time.Time
}

// NewLookupUseCase создает LookupUseCase. settings may be nil; lookups then
// use only the permits passed in the request.
func NewLookupUseCase(
	zones repository.ZoneRepository,
	settings repository.SettingsRepository,
	calc *rules.Calculator,
	logger *zap.Logger,
) *LookupUseCase {
	return &LookupUseCase{
		zones:    zones,
		settings: settings,
		calc:     calc,
		logger:   logger,
		now:      time.Now,
	}
}

// Lookup finds the zone at a point and evaluates it for the user's permits.
// When zones overlap the most restrictive one is reported and the others are
// listed as overlapping.
func (uc *LookupUseCase) Lookup(ctx context.Context, req dto.LookupRequest) (*dto.LookupResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidCoordinates.WithDetails(validator.FieldErrors(err))
	}

	zones, err := uc.resolve(ctx, domain.Coordinate{Latitude: req.Lat, Longitude: req.Lon})
	if err != nil {
		return nil, err
	}

	permits := req.Permits
	if permits == nil {
		permits = uc.storedPermits(ctx)
	}

	at := req.At
	if at.IsZero() {
		at = uc.now()
	}
	at = at.In(uc.calc.Location())

	zone := zones[0]
	ev := uc.calc.Evaluate(zone, permits, at)

	resp := &dto.LookupResponse{
		Zone:        dto.NewZoneSummary(zone),
		Validity:    ev.Validity,
		ParkUntil:   dto.NewDeadline(ev.Deadline, at),
		ActiveRules: ev.Active,
		At:          at,
	}
	for _, z := range zones[1:] {
		resp.Overlapping = append(resp.Overlapping, dto.NewZoneSummary(z))
	}

	uc.logger.Info("Zone lookup",
		zap.String("zone_id", zone.ID),
		zap.String("validity", string(ev.Validity)),
		zap.String("deadline_kind", string(ev.Deadline.Kind)),
		zap.Int("overlapping", len(resp.Overlapping)))

	return resp, nil
}

// resolve returns the zones at c, most restrictive first.
func (uc *LookupUseCase) resolve(ctx context.Context, c domain.Coordinate) ([]domain.ParkingZone, error) {
	if !c.IsValid() {
		return nil, errors.ErrInvalidCoordinates
	}

	city, err := uc.zones.City(ctx)
	if err != nil {
		return nil, errors.ErrDataLoadFailed.Wrap(err)
	}
	if !city.Bounds.IsZero() && !city.Bounds.Contains(c) {
		return nil, errors.ErrOutsideCoverage.WithDetails(map[string]interface{}{
			"lat": c.Latitude,
			"lon": c.Longitude,
		})
	}

	zones, err := uc.zones.FindByPoint(ctx, c)
	if err != nil {
		uc.logger.Error("Failed to find zones", zap.Error(err))
		return nil, errors.ErrDataLoadFailed.Wrap(err)
	}
	if len(zones) == 0 {
		return nil, errors.ErrUnknownArea.WithDetails(map[string]interface{}{
			"lat": c.Latitude,
			"lon": c.Longitude,
		})
	}
	return zones, nil
}

func (uc *LookupUseCase) storedPermits(ctx context.Context) []domain.ParkingPermit {
	if uc.settings == nil {
		return nil
	}
	s, err := uc.settings.Load(ctx)
	if err != nil {
		uc.logger.Warn("Failed to load settings, continuing without permits", zap.Error(err))
		return nil
	}
	return s.Permits
}

// ParkUntil evaluates a single ad-hoc rule.
func (uc *LookupUseCase) ParkUntil(ctx context.Context, req dto.ParkUntilRequest) (*dto.Deadline, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(validator.FieldErrors(err))
	}

	in := rules.Input{
		TimeLimit: time.Duration(req.TimeLimitMinutes) * time.Minute,
		Validity:  rules.ValidityInvalid,
	}
	if req.Validity != "" {
		in.Validity = rules.Validity(req.Validity)
	}

	if req.Days != "" {
		in.EnforcementDays = domain.ParseDayCodes(req.Days)
		if in.EnforcementDays.IsEmpty() {
			return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"days": req.Days})
		}
	}
	for _, f := range []struct {
		name string
		raw  string
		dst  **domain.TimeOfDay
	}{
		{"start", req.Start, &in.EnforcementStart},
		{"end", req.End, &in.EnforcementEnd},
	} {
		if f.raw == "" {
			continue
		}
		t, err := domain.ParseTimeOfDay(f.raw)
		if err != nil {
			return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{f.name: f.raw}).Wrap(err)
		}
		*f.dst = &t
	}

	at := req.At
	if at.IsZero() {
		at = uc.now()
	}
	in.Now = at.In(uc.calc.Location())

	d := dto.NewDeadline(rules.ParkUntil(in), in.Now)
	return &d, nil
}
