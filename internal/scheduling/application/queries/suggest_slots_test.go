package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

func newSlotsHandler(blocks *stubBlockStore, calendar *stubCalendarSource, availability AvailabilityService) *SuggestSlotsHandler {
	return NewSuggestSlotsHandler(blocks, calendar, availability, &stubPrefsStore{}, services.NewSlotScorer())
}

func TestSuggestSlotsHandler_RejectsNonPositiveDuration(t *testing.T) {
	handler := newSlotsHandler(&stubBlockStore{}, &stubCalendarSource{}, nil)

	_, err := handler.Handle(context.Background(), SuggestSlotsQuery{
		UserID:    uuid.New(),
		StartDate: queryDate,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration must be positive")
}

func TestSuggestSlotsHandler_RanksFreeDay(t *testing.T) {
	handler := newSlotsHandler(&stubBlockStore{}, &stubCalendarSource{}, nil)

	result, err := handler.Handle(context.Background(), SuggestSlotsQuery{
		UserID:          uuid.New(),
		StartDate:       queryDate,
		DurationMinutes: 60,
		Preference:      services.PreferenceMorning,
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.Candidates)
	assert.LessOrEqual(t, len(result.Candidates), 5)
	for i := 1; i < len(result.Candidates); i++ {
		assert.GreaterOrEqual(t, result.Candidates[i-1].Score, result.Candidates[i].Score)
	}
	best := result.Candidates[0]
	assert.Equal(t, 10, best.Start.Hour(), "a free morning should win under morning preference")
	assert.True(t, best.Factors.PreferredTime)
}

func TestSuggestSlotsHandler_AvailabilityFailureDegradesToUnknown(t *testing.T) {
	attendees := []string{"sam@example.com", "kit@example.com"}
	availability := &stubAvailability{err: errors.New("freebusy unavailable")}
	handler := newSlotsHandler(&stubBlockStore{}, &stubCalendarSource{}, availability)

	result, err := handler.Handle(context.Background(), SuggestSlotsQuery{
		UserID:          uuid.New(),
		StartDate:       queryDate,
		DurationMinutes: 30,
		Attendees:       attendees,
	})
	require.NoError(t, err, "an availability outage should not fail the search")
	assert.Equal(t, attendees, result.UnknownAttendees)
	assert.NotEmpty(t, result.Candidates)
}

func TestSuggestSlotsHandler_NilAvailabilityServiceMarksAttendeesUnknown(t *testing.T) {
	handler := newSlotsHandler(&stubBlockStore{}, &stubCalendarSource{}, nil)

	result, err := handler.Handle(context.Background(), SuggestSlotsQuery{
		UserID:          uuid.New(),
		StartDate:       queryDate,
		DurationMinutes: 30,
		Attendees:       []string{"sam@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sam@example.com"}, result.UnknownAttendees)
}

func TestSuggestSlotsHandler_AttendeeBusyWindowsLowerScores(t *testing.T) {
	availability := &stubAvailability{result: services.AttendeeAvailability{
		Busy: map[string][]domain.TimeInterval{
			"sam@example.com": {{Start: clockOn(queryDate, 9, 0), End: clockOn(queryDate, 12, 0)}},
		},
	}}
	handler := newSlotsHandler(&stubBlockStore{}, &stubCalendarSource{}, availability)

	result, err := handler.Handle(context.Background(), SuggestSlotsQuery{
		UserID:              uuid.New(),
		StartDate:           queryDate,
		DurationMinutes:     60,
		Attendees:           []string{"sam@example.com"},
		RequireAllAttendees: true,
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.Candidates)
	for _, candidate := range result.Candidates {
		assert.False(t, candidate.Start.Before(clockOn(queryDate, 12, 0)),
			"slots during the attendee's busy morning must be dropped")
	}
	assert.Empty(t, result.UnknownAttendees)
}

func TestSuggestSlotsHandler_SourceFailureAborts(t *testing.T) {
	blocks := &stubBlockStore{err: errors.New("db down")}
	handler := newSlotsHandler(blocks, &stubCalendarSource{}, nil)

	_, err := handler.Handle(context.Background(), SuggestSlotsQuery{
		UserID:          uuid.New(),
		StartDate:       queryDate,
		DurationMinutes: 30,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suggest slots")
	assert.Contains(t, err.Error(), "schedule blocks")
}
