package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrProviderUnavailable is returned when the calendar backend cannot
	// be reached (including an open circuit breaker).
	ErrProviderUnavailable = errors.New("calendar provider unavailable")
)

// Window bounds a calendar query in time.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow creates a query window; End must be after Start.
func NewWindow(start, end time.Time) (Window, error) {
	if !end.After(start) {
		return Window{}, errors.New("window end must be after start")
	}
	return Window{Start: start, End: end}, nil
}

// EventSpec describes an event to create or the changes to apply on update.
type EventSpec struct {
	Summary   string
	Start     time.Time
	End       time.Time
	Attendees []string
	Location  string
}

// Provider is the external calendar collaborator. Implementations include
// the CalDAV client plus the caching and circuit-breaking decorators.
type Provider interface {
	// ListEvents returns the user's events intersecting the window,
	// recurring series expanded into instances.
	ListEvents(ctx context.Context, userID uuid.UUID, window Window) ([]Event, error)

	// GetEvent returns one event by ID, or ErrEventNotFound.
	GetEvent(ctx context.Context, userID uuid.UUID, id string) (*Event, error)

	// CreateEvent writes a new event and returns it with its assigned ID.
	CreateEvent(ctx context.Context, userID uuid.UUID, spec EventSpec) (*Event, error)

	// UpdateEvent applies the spec to an existing event.
	UpdateEvent(ctx context.Context, userID uuid.UUID, id string, spec EventSpec) (*Event, error)

	// CheckConflicts returns the events overlapping the window, excluding
	// excludeID when non-empty.
	CheckConflicts(ctx context.Context, userID uuid.UUID, window Window, excludeID string) ([]Event, error)
}
