package dto

import (
	"time"

	"github.com/sf-parking-zones/internal/domain"
)

// LookupRequest - запрос зоны по координатам
type LookupRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
	// Permits overrides the stored permits when non-nil.
	Permits []domain.ParkingPermit `json:"permits,omitempty" validate:"omitempty,dive"`
	At      time.Time              `json:"at"`
}

// ParkUntilRequest - прямой расчёт дедлайна по одному правилу
type ParkUntilRequest struct {
	At               time.Time `json:"at"`
	TimeLimitMinutes int       `json:"time_limit" validate:"min=0,max=10080"`
	Days             string    `json:"days,omitempty"`
	Start            string    `json:"start,omitempty"`
	End              string    `json:"end,omitempty"`
	Validity         string    `json:"validity" validate:"omitempty,oneof=valid invalid no_permit_required conditional unknown"`
}

// StartSessionRequest - начало парковки
type StartSessionRequest struct {
	Lat float64   `json:"lat" validate:"min=-90,max=90"`
	Lon float64   `json:"lon" validate:"min=-180,max=180"`
	At  time.Time `json:"at"`
}

// PipelineRunRequest - параметры запуска пайплайна
type PipelineRunRequest struct {
	SkipMeters bool   `json:"skip_meters"`
	Preset     string `json:"preset,omitempty" validate:"omitempty,max=64"`
	// Previous is the bundle to compare against; empty means the latest in
	// the output directory.
	Previous string `json:"previous,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
