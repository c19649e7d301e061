// Package application adapts the calendar provider for the scheduling
// engine's read paths.
package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	calendarDomain "github.com/mitchforest/dayli/internal/calendar/domain"
	scheduling "github.com/mitchforest/dayli/internal/scheduling/domain"
)

// BusySource exposes calendar events as scheduling busy items.
type BusySource struct {
	provider calendarDomain.Provider
}

// NewBusySource creates a busy source over a provider.
func NewBusySource(provider calendarDomain.Provider) *BusySource {
	return &BusySource{provider: provider}
}

// BusyItems lists the user's events in the window as busy items.
// Cancelled events are skipped.
func (s *BusySource) BusyItems(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]scheduling.BusyItem, error) {
	window, err := calendarDomain.NewWindow(start, end)
	if err != nil {
		return nil, err
	}

	events, err := s.provider.ListEvents(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	items := make([]scheduling.BusyItem, 0, len(events))
	for _, event := range events {
		if strings.EqualFold(event.Status, "cancelled") {
			continue
		}
		item := scheduling.NewBusyItem(
			event.ID,
			scheduling.SourceCalendarEvent,
			event.Summary,
			scheduling.TimeInterval{Start: event.Start, End: event.End},
		)
		if event.Location != "" {
			item = item.WithLocation(event.Location)
		}
		if event.IsRecurring() {
			item = item.WithRecurring(true)
		}
		items = append(items, item)
	}
	return items, nil
}
