// Package domain holds the calendar-facing types the engine consumes.
// Calendar events are owned by the external provider and read-only here.
package domain

import (
	"errors"
	"time"
)

var (
	ErrEventNotFound = errors.New("calendar event not found")
)

// Event is an external calendar event snapshot.
type Event struct {
	ID               string    `json:"id"`
	Summary          string    `json:"summary"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Attendees        []string  `json:"attendees,omitempty"`
	Location         string    `json:"location,omitempty"`
	RecurringEventID string    `json:"recurring_event_id,omitempty"`
	Status           string    `json:"status,omitempty"`
}

// Duration returns the event length.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// IsRecurring reports whether the event is an instance of a recurring series.
func (e Event) IsRecurring() bool {
	return e.RecurringEventID != ""
}

// Overlaps reports whether the event overlaps the given window.
func (e Event) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && start.Before(e.End)
}
