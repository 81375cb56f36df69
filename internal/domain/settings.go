package domain

// DeviceSettings is the per-device state: the user's permits, the chosen
// simplification preset and parking sessions.
type DeviceSettings struct {
	Permits       []ParkingPermit  `json:"permits" yaml:"permits" validate:"dive"`
	ActivePreset  string           `json:"activePreset,omitempty" yaml:"activePreset,omitempty"`
	ActiveSession *ParkingSession  `json:"activeSession,omitempty" yaml:"activeSession,omitempty"`
	History       []ParkingSession `json:"history,omitempty" yaml:"history,omitempty"`
}

// MaxSessionHistory caps DeviceSettings.History.
const MaxSessionHistory = 20
