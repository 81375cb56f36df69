package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamDatasetPublished  = "stream:parking:dataset:published"
	StreamPipelineRequested = "stream:parking:pipeline:requested"
)

// DatasetPublishedEvent is emitted after the pipeline writes a new zone bundle.
type DatasetPublishedEvent struct {
	RunID       uuid.UUID `json:"run_id"`
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	AssetPath   string    `json:"asset_path"`
	Zones       int       `json:"zones"`
	Meters      int       `json:"meters"`
	Warnings    int       `json:"warnings"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}

// PipelineRunRequest asks a running worker to refresh the dataset now.
type PipelineRunRequest struct {
	RequestID   uuid.UUID `json:"request_id"`
	RequestedAt time.Time `json:"requested_at"`
	SkipMeters  bool      `json:"skip_meters"`
	Preset      string    `json:"preset,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}
