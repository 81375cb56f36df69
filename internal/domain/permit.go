package domain

import (
	"time"

	"github.com/google/uuid"
)

// PermitType - тип разрешения пользователя
type PermitType string

const (
	PermitTypeResidential PermitType = "residential"
	PermitTypeDisabled    PermitType = "disabled"
	PermitTypeCommercial  PermitType = "commercial"
	PermitTypeNone        PermitType = "none"
)

// ParkingPermit is a permit held by the user.
type ParkingPermit struct {
	Type PermitType `json:"type" yaml:"type" validate:"required,oneof=residential disabled commercial none"`
	Area string     `json:"area,omitempty" yaml:"area,omitempty" validate:"omitempty,permit_area"`
}

// SessionStatus - состояние парковочной сессии
type SessionStatus string

const (
	SessionStatusActive  SessionStatus = "active"
	SessionStatusExpired SessionStatus = "expired"
	SessionStatusEnded   SessionStatus = "ended"
)

// ParkingSession is an active or finished parking. Rules is a snapshot of the
// zone's rules when the session started.
type ParkingSession struct {
	ID        uuid.UUID  `json:"id"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Location  Coordinate `json:"location"`
	ZoneID    string     `json:"zoneId"`
	ZoneName  string     `json:"zoneName"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	// DeadlineKind says what ends the session at Deadline, e.g. "time_limit"
	DeadlineKind string        `json:"deadlineKind,omitempty"`
	Rules        []ParkingRule `json:"rules"`
	Status       SessionStatus `json:"status"`
}

// StatusAt derives the status at t without mutating the session.
func (s ParkingSession) StatusAt(t time.Time) SessionStatus {
	if s.Status == SessionStatusEnded {
		return SessionStatusEnded
	}
	if s.Deadline != nil && !t.Before(*s.Deadline) {
		return SessionStatusExpired
	}
	return SessionStatusActive
}

// Remaining is the time left before the deadline; zero when there is no
// deadline or it has passed.
func (s ParkingSession) Remaining(t time.Time) time.Duration {
	if s.Deadline == nil {
		return 0
	}
	d := s.Deadline.Sub(t)
	if d < 0 {
		return 0
	}
	return d
}
