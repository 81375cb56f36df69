package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/export"
	"github.com/sf-parking-zones/internal/rules"
	"github.com/sf-parking-zones/internal/simplification"
	"github.com/sf-parking-zones/internal/validate"
)

// ZoneSummary - краткое описание зоны
type ZoneSummary struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       domain.ZoneType `json:"type"`
	PermitArea string          `json:"permit_area,omitempty"`
}

// NewZoneSummary builds a summary from a zone.
func NewZoneSummary(z domain.ParkingZone) ZoneSummary {
	return ZoneSummary{
		ID:         z.ID,
		Name:       z.Name(),
		Type:       z.Type,
		PermitArea: z.PermitArea,
	}
}

// Deadline - дедлайн с текстом для пользователя
type Deadline struct {
	rules.Result
	Description string `json:"description"`
	Remaining   string `json:"remaining"`
}

// NewDeadline describes r relative to now.
func NewDeadline(r rules.Result, now time.Time) Deadline {
	return Deadline{
		Result:      r,
		Description: rules.DescribeDeadline(r, now),
		Remaining:   rules.DescribeRemaining(r, now),
	}
}

// LookupResponse - результат поиска зоны
type LookupResponse struct {
	Zone        ZoneSummary          `json:"zone"`
	Validity    rules.Validity       `json:"validity"`
	ParkUntil   Deadline             `json:"park_until"`
	ActiveRules []domain.ParkingRule `json:"active_rules"`
	Overlapping []ZoneSummary        `json:"overlapping,omitempty"`
	At          time.Time            `json:"at"`
}

// SessionResponse - парковочная сессия с оставшимся временем
type SessionResponse struct {
	Session   domain.ParkingSession `json:"session"`
	Status    domain.SessionStatus  `json:"status"`
	Remaining time.Duration         `json:"remaining"`
	Deadline  rules.Result          `json:"deadline"`
	// Description is the deadline as shown to the user.
	Description string `json:"description"`
}

// RunReport - итог запуска пайплайна
type RunReport struct {
	RunID          uuid.UUID                `json:"run_id"`
	Version        string                   `json:"version"`
	StartedAt      time.Time                `json:"started_at"`
	Duration       time.Duration            `json:"duration"`
	FetchDurations map[string]time.Duration `json:"fetch_durations"`
	RecordCounts   map[string]int           `json:"record_counts"`
	Zones          int                      `json:"zones"`
	Meters         int                      `json:"meters"`
	Regulations    int                      `json:"regulations"`
	Simplification *simplification.Metrics  `json:"simplification,omitempty"`
	Validation     *validate.Result         `json:"validation"`
	Incremental    *validate.Result         `json:"incremental,omitempty"`
	Paths          *export.Paths            `json:"paths,omitempty"`
	Published      bool                     `json:"published"`
}
