package domain

import "time"

// Event types broadcast to connected dashboard clients.
const (
	EventDatasetReloaded = "dataset_reloaded"
)

// Event is a realtime notification pushed over the websocket hub.
type Event struct {
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurredAt"`
	Incidents     int       `json:"incidents,omitempty"`
	Consultations int       `json:"consultations,omitempty"`
}

// NewDatasetReloadedEvent describes a completed snapshot swap.
func NewDatasetReloadedEvent(s *Snapshot) Event {
	return Event{
		Type:          EventDatasetReloaded,
		OccurredAt:    s.LoadedAt,
		Incidents:     len(s.Incidents),
		Consultations: len(s.Consultations),
	}
}
