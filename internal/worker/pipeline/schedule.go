package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/sf-parking-zones/internal/config"
	"github.com/sf-parking-zones/internal/domain"
)

// Frequency - как часто обновлять данные
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Schedule is a wall-clock schedule in a fixed time zone. Runs start on the
// hour.
type Schedule struct {
	Frequency Frequency
	Day       time.Weekday
	Hour      int
	Location  *time.Location
}

// NewSchedule builds a schedule from config. An unknown frequency falls back
// to weekly on Sunday; an unknown day falls back to Sunday.
func NewSchedule(cfg config.ScheduleConfig, loc *time.Location) Schedule {
	if loc == nil {
		loc = time.UTC
	}
	s := Schedule{
		Frequency: Frequency(strings.ToLower(cfg.Frequency)),
		Day:       time.Sunday,
		Hour:      cfg.Hour,
		Location:  loc,
	}
	if d, ok := domain.ParseDayName(cfg.Day); ok {
		s.Day = d
	}
	switch s.Frequency {
	case Daily, Weekly, Monthly:
	default:
		s.Frequency = Weekly
		s.Day = time.Sunday
	}
	return s
}

// Next returns the first run strictly after t.
func (s Schedule) Next(t time.Time) time.Time {
	local := t.In(s.Location)
	y, m, d := local.Date()

	switch s.Frequency {
	case Daily:
		next := time.Date(y, m, d, s.Hour, 0, 0, 0, s.Location)
		if !next.After(local) {
			next = time.Date(y, m, d+1, s.Hour, 0, 0, 0, s.Location)
		}
		return next
	case Monthly:
		next := time.Date(y, m, 1, s.Hour, 0, 0, 0, s.Location)
		if !next.After(local) {
			next = time.Date(y, m+1, 1, s.Hour, 0, 0, 0, s.Location)
		}
		return next
	default:
		ahead := (int(s.Day) - int(local.Weekday()) + 7) % 7
		next := time.Date(y, m, d+ahead, s.Hour, 0, 0, 0, s.Location)
		if !next.After(local) {
			next = time.Date(y, m, d+ahead+7, s.Hour, 0, 0, 0, s.Location)
		}
		return next
	}
}

func (s Schedule) String() string {
	switch s.Frequency {
	case Daily:
		return fmt.Sprintf("daily at %02d:00 %s", s.Hour, s.Location)
	case Monthly:
		return fmt.Sprintf("monthly on the 1st at %02d:00 %s", s.Hour, s.Location)
	default:
		return fmt.Sprintf("every %s at %02d:00 %s", s.Day, s.Hour, s.Location)
	}
}
