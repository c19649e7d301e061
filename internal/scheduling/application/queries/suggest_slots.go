package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mitchforest/dayli/internal/preferences"
	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// SuggestSlotsQuery contains the parameters for a meeting-slot search.
type SuggestSlotsQuery struct {
	UserID          uuid.UUID
	StartDate       time.Time
	Days            int
	DurationMinutes int
	Preference      services.TimePreference
	Attendees       []string
	// RequireAllAttendees drops candidates with any known attendee conflict.
	RequireAllAttendees bool
}

// SlotSuggestions is the result of a meeting-slot search.
type SlotSuggestions struct {
	Candidates []domain.SlotCandidate `json:"candidates"`
	// UnknownAttendees lists attendees whose availability could not be
	// determined; their slots score neutrally.
	UnknownAttendees []string `json:"unknown_attendees,omitempty"`
}

// SuggestSlotsHandler handles the SuggestSlotsQuery.
type SuggestSlotsHandler struct {
	blocks       domain.BlockStore
	calendar     CalendarSource
	availability AvailabilityService
	prefs        preferences.Store
	scorer       *services.SlotScorer
}

// NewSuggestSlotsHandler creates a new SuggestSlotsHandler.
func NewSuggestSlotsHandler(
	blocks domain.BlockStore,
	calendar CalendarSource,
	availability AvailabilityService,
	prefs preferences.Store,
	scorer *services.SlotScorer,
) *SuggestSlotsHandler {
	return &SuggestSlotsHandler{
		blocks:       blocks,
		calendar:     calendar,
		availability: availability,
		prefs:        prefs,
		scorer:       scorer,
	}
}

// Handle builds the busy picture for each day of the search range, looks
// up attendee availability, and returns the ranked candidates.
func (h *SuggestSlotsHandler) Handle(ctx context.Context, query SuggestSlotsQuery) (*SlotSuggestions, error) {
	if query.DurationMinutes <= 0 {
		return nil, fmt.Errorf("suggest slots: duration must be positive")
	}
	days := query.Days
	if days <= 0 {
		days = 1
	}

	prefs, err := loadPreferences(ctx, h.prefs, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("suggest slots: %w", err)
	}

	workStart, err := prefs.WorkStartOffset()
	if err != nil {
		return nil, fmt.Errorf("suggest slots: %w", err)
	}
	workEnd, err := prefs.WorkEndOffset()
	if err != nil {
		return nil, fmt.Errorf("suggest slots: %w", err)
	}
	lunchStart, err := prefs.LunchStartOffset()
	if err != nil {
		return nil, fmt.Errorf("suggest slots: %w", err)
	}

	rangeStart := midnight(query.StartDate)
	rangeEnd := rangeStart.AddDate(0, 0, days)

	var fetchErrs []error
	snapshots := make([]services.DaySnapshot, 0, days)
	for i := 0; i < days; i++ {
		date := rangeStart.AddDate(0, 0, i)
		busy := make([]domain.BusyItem, 0)

		blocks, err := h.blocks.GetBlocksForDate(ctx, query.UserID, date)
		if err != nil {
			fetchErrs = append(fetchErrs, fmt.Errorf("schedule blocks for %s: %w", date.Format("2006-01-02"), err))
		} else {
			busy = append(busy, blockBusyItems(blocks)...)
		}

		events, err := h.calendar.BusyItems(ctx, query.UserID, date, date.AddDate(0, 0, 1))
		if err != nil {
			fetchErrs = append(fetchErrs, fmt.Errorf("calendar events for %s: %w", date.Format("2006-01-02"), err))
		} else {
			busy = append(busy, events...)
		}

		snapshots = append(snapshots, services.DaySnapshot{Date: date, Busy: busy})
	}
	if len(fetchErrs) > 0 {
		return nil, fmt.Errorf("suggest slots: %w", errors.Join(fetchErrs...))
	}

	availability := services.AttendeeAvailability{Busy: map[string][]domain.TimeInterval{}}
	if len(query.Attendees) > 0 && h.availability != nil {
		availability, err = h.availability.Availability(ctx, query.UserID, query.Attendees, rangeStart, rangeEnd)
		if err != nil {
			// Unresolvable attendee calendars degrade to unknown, not to
			// a failed search.
			availability = services.AttendeeAvailability{
				Busy:    map[string][]domain.TimeInterval{},
				Unknown: query.Attendees,
			}
		}
	} else if len(query.Attendees) > 0 {
		availability.Unknown = query.Attendees
	}

	req := services.MeetingSlotRequest{
		DurationMinutes:     query.DurationMinutes,
		WorkdayStart:        workStart,
		WorkdayEnd:          workEnd,
		LunchStart:          lunchStart,
		LunchDuration:       time.Duration(prefs.LunchDurationMinutes) * time.Minute,
		Preference:          query.Preference,
		RequireAllAttendees: query.RequireAllAttendees,
		Attendees:           query.Attendees,
	}

	return &SlotSuggestions{
		Candidates:       h.scorer.SuggestMeetingSlots(req, snapshots, availability),
		UnknownAttendees: availability.Unknown,
	}, nil
}
