package domain

import "time"

// EventKind distinguishes the two sources of timeline events
type EventKind string

const (
	// EventCreation is emitted once per artifact from its own lastModified fields
	EventCreation EventKind = "Creation"
	// EventModification is emitted once per ChangeEvent of an artifact
	EventModification EventKind = "Modification"
)

// Event is one entry of the timeline view
type Event struct {
	ArtifactID  string    `json:"artifactId"`
	Kind        Kind      `json:"kind"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	User        string    `json:"user"`
	EventKind   EventKind `json:"eventKind"`

	// ChangeKind is set for modification events only
	ChangeKind ChangeKind `json:"changeKind,omitempty"`
}

// MonthGroup holds the timeline events that fall in one calendar month
type MonthGroup struct {
	Month  string  `json:"month"` // "YYYY-MM"
	Events []Event `json:"events"`
}
