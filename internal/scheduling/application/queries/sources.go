// Package queries holds the read-side handlers of the scheduling engine.
package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mitchforest/dayli/internal/preferences"
	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// CalendarSource supplies external calendar events as busy items.
// The calendar context adapts its provider onto this.
type CalendarSource interface {
	BusyItems(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyItem, error)
}

// AvailabilityService looks up attendee availability for slot suggestions.
type AvailabilityService interface {
	Availability(ctx context.Context, userID uuid.UUID, attendees []string, start, end time.Time) (services.AttendeeAvailability, error)
}

// loadPreferences returns the user's preferences, falling back to defaults
// when none are stored.
func loadPreferences(ctx context.Context, store preferences.Store, userID uuid.UUID) (*preferences.Preferences, error) {
	prefs, err := store.Get(ctx, userID)
	if errors.Is(err, preferences.ErrNotFound) {
		return preferences.Default(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// blockBusyItems converts schedule blocks to busy items.
func blockBusyItems(blocks []*domain.ScheduleBlock) []domain.BusyItem {
	items := make([]domain.BusyItem, 0, len(blocks))
	for _, block := range blocks {
		items = append(items, block.BusyItem())
	}
	return items
}
