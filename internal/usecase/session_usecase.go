package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/domain/repository"
	"github.com/sf-parking-zones/internal/pkg/errors"
	"github.com/sf-parking-zones/internal/pkg/validator"
	"github.com/sf-parking-zones/internal/rules"
	"github.com/sf-parking-zones/internal/usecase/dto"
)

// SessionUseCase - парковочные сессии, хранятся в настройках устройства
type SessionUseCase struct {
	lookup   *LookupUseCase
	settings repository.SettingsRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionUseCase(lookup *LookupUseCase, settings repository.SettingsRepository, logger *zap.Logger) *SessionUseCase {
	return &SessionUseCase{
		lookup:   lookup,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// Start parks at the given point. The zone's rules and the deadline are
// snapshotted so later data updates do not change a running session. A
// previous session still open is ended first.
func (uc *SessionUseCase) Start(ctx context.Context, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidCoordinates.WithDetails(validator.FieldErrors(err))
	}
	at := req.At
	if at.IsZero() {
		at = uc.now()
	}

	s, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, errors.ErrDataLoadFailed.Wrap(err)
	}

	res, err := uc.lookup.Lookup(ctx, dto.LookupRequest{Lat: req.Lat, Lon: req.Lon, Permits: s.Permits, At: at})
	if err != nil {
		return nil, err
	}
	zone, err := uc.lookup.zones.ByID(ctx, res.Zone.ID)
	if err != nil || zone == nil {
		return nil, errors.ErrDataLoadFailed.WithDetails(map[string]interface{}{"zone_id": res.Zone.ID})
	}

	if s.ActiveSession != nil {
		uc.close(s, at)
	}

	session := domain.ParkingSession{
		ID:        uuid.New(),
		StartTime: res.At,
		Location:  domain.Coordinate{Latitude: req.Lat, Longitude: req.Lon},
		ZoneID:    zone.ID,
		ZoneName:  zone.Name(),
		Rules:     domain.CloneRules(zone.Rules),
		Status:    domain.SessionStatusActive,
	}
	if !res.ParkUntil.Unrestricted() {
		until := res.ParkUntil.Until
		session.Deadline = &until
		session.DeadlineKind = string(res.ParkUntil.Kind)
	}
	s.ActiveSession = &session

	if err := uc.settings.Save(ctx, s); err != nil {
		return nil, err
	}

	uc.logger.Info("Parking session started",
		zap.String("session_id", session.ID.String()),
		zap.String("zone_id", session.ZoneID))

	return sessionResponse(session, res.At, uc.lookup.calc.Location()), nil
}

// Active returns the open session as of at.
func (uc *SessionUseCase) Active(ctx context.Context, at time.Time) (*dto.SessionResponse, error) {
	s, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, errors.ErrDataLoadFailed.Wrap(err)
	}
	if s.ActiveSession == nil {
		return nil, errors.ErrSessionNotFound
	}
	if at.IsZero() {
		at = uc.now()
	}
	return sessionResponse(*s.ActiveSession, at, uc.lookup.calc.Location()), nil
}

// End closes the open session and moves it to history.
func (uc *SessionUseCase) End(ctx context.Context, at time.Time) (*dto.SessionResponse, error) {
	s, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, errors.ErrDataLoadFailed.Wrap(err)
	}
	if s.ActiveSession == nil {
		return nil, errors.ErrSessionNotFound
	}
	if at.IsZero() {
		at = uc.now()
	}

	ended := uc.close(s, at)
	if err := uc.settings.Save(ctx, s); err != nil {
		return nil, err
	}

	uc.logger.Info("Parking session ended",
		zap.String("session_id", ended.ID.String()),
		zap.Duration("parked", at.Sub(ended.StartTime)))

	return sessionResponse(ended, at, uc.lookup.calc.Location()), nil
}

// Get finds a session by ID, open or historical.
func (uc *SessionUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.ParkingSession, error) {
	s, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, errors.ErrDataLoadFailed.Wrap(err)
	}
	if s.ActiveSession != nil && s.ActiveSession.ID == id {
		return s.ActiveSession, nil
	}
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].ID == id {
			return &s.History[i], nil
		}
	}
	return nil, errors.ErrSessionNotFound.WithDetails(map[string]interface{}{"id": id.String()})
}

// History returns finished sessions, newest first.
func (uc *SessionUseCase) History(ctx context.Context) ([]domain.ParkingSession, error) {
	s, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, errors.ErrDataLoadFailed.Wrap(err)
	}
	out := make([]domain.ParkingSession, len(s.History))
	for i, h := range s.History {
		out[len(s.History)-1-i] = h
	}
	return out, nil
}

func (uc *SessionUseCase) close(s *domain.DeviceSettings, at time.Time) domain.ParkingSession {
	ended := *s.ActiveSession
	end := at
	ended.EndTime = &end
	ended.Status = domain.SessionStatusEnded

	s.History = append(s.History, ended)
	if len(s.History) > domain.MaxSessionHistory {
		s.History = s.History[len(s.History)-domain.MaxSessionHistory:]
	}
	s.ActiveSession = nil
	return ended
}

func sessionResponse(s domain.ParkingSession, at time.Time, loc *time.Location) *dto.SessionResponse {
	at = at.In(loc)
	deadline := rules.Result{Kind: rules.KindUnrestricted}
	if s.Deadline != nil {
		kind := rules.Kind(s.DeadlineKind)
		if kind == "" {
			kind = rules.KindTimeLimit
		}
		deadline = rules.Result{Kind: kind, Until: s.Deadline.In(loc)}
	}

	resp := &dto.SessionResponse{
		Session:   s,
		Status:    s.StatusAt(at),
		Remaining: s.Remaining(at),
		Deadline:  deadline,
	}
	switch resp.Status {
	case domain.SessionStatusEnded:
		resp.Description = "Session ended"
	case domain.SessionStatusExpired:
		resp.Description = "Time is up"
	default:
		resp.Description = rules.DescribeDeadline(deadline, at)
	}
	return resp
}
