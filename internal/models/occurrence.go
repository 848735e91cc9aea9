package models

import (
	"time"

	"github.com/google/uuid"
)

// Occurrence is one concrete instance of an event inside a query window.
// It is a transient projection: built per request, keyed by a deterministic
// ID, never stored.
type Occurrence struct {
	ID          string    `json:"id"` // "<event id>:<index>", stable per expansion call
	EventID     uuid.UUID `json:"event_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Timezone    string    `json:"timezone"`
	IsAllDay    bool      `json:"is_all_day"`
	Color       string    `json:"color"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
}

func (o *Occurrence) Duration() time.Duration {
	return o.EndAt.Sub(o.StartAt)
}

type ConflictKind string

const (
	ConflictOverlap  ConflictKind = "overlap"
	ConflictAdjacent ConflictKind = "adjacent"
)

// ConflictPair records two occurrences whose intervals intersect or touch.
// Each unordered pair appears at most once.
type ConflictPair struct {
	A    Occurrence   `json:"a"`
	B    Occurrence   `json:"b"`
	Kind ConflictKind `json:"kind"`
}
