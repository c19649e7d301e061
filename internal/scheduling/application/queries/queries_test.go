package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mitchforest/dayli/internal/preferences"
	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// Shared stubs for the handler tests in this package.

type stubBlockStore struct {
	blocks []*domain.ScheduleBlock
	err    error
}

func (s *stubBlockStore) GetBlocksForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*domain.ScheduleBlock, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make([]*domain.ScheduleBlock, 0)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	for _, block := range s.blocks {
		if block.UserID() == userID && block.Date().Equal(day) {
			result = append(result, block)
		}
	}
	return result, nil
}

func (s *stubBlockStore) GetBlock(ctx context.Context, id uuid.UUID) (*domain.ScheduleBlock, error) {
	for _, block := range s.blocks {
		if block.ID() == id {
			return block, nil
		}
	}
	return nil, domain.ErrBlockNotFound
}

func (s *stubBlockStore) CreateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	s.blocks = append(s.blocks, block)
	return nil
}

func (s *stubBlockStore) UpdateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	return nil
}

func (s *stubBlockStore) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubCalendarSource struct {
	items []domain.BusyItem
	err   error
}

func (s *stubCalendarSource) BusyItems(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

// stubPrefsStore returns ErrNotFound unless prefs are set, which exercises
// the default-preferences fallback in every handler.
type stubPrefsStore struct {
	prefs *preferences.Preferences
}

func (s *stubPrefsStore) Get(ctx context.Context, userID uuid.UUID) (*preferences.Preferences, error) {
	if s.prefs == nil {
		return nil, preferences.ErrNotFound
	}
	return s.prefs, nil
}

func (s *stubPrefsStore) Save(ctx context.Context, prefs *preferences.Preferences) error {
	s.prefs = prefs
	return nil
}

type stubAvailability struct {
	result services.AttendeeAvailability
	err    error
}

func (s *stubAvailability) Availability(ctx context.Context, userID uuid.UUID, attendees []string, start, end time.Time) (services.AttendeeAvailability, error) {
	if s.err != nil {
		return services.AttendeeAvailability{}, s.err
	}
	return s.result, nil
}

var queryDate = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

func clockOn(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
}

func blockOn(t *testing.T, userID uuid.UUID, day time.Time, blockType domain.BlockType, title string, startHour, startMin, endHour, endMin int) *domain.ScheduleBlock {
	t.Helper()
	block, err := domain.NewScheduleBlock(
		userID, blockType, title, day,
		clockOn(day, startHour, startMin), clockOn(day, endHour, endMin),
	)
	require.NoError(t, err)
	return block
}

func eventOn(day time.Time, id, title string, startHour, startMin, endHour, endMin int) domain.BusyItem {
	return domain.BusyItem{
		ID:     id,
		Source: domain.SourceCalendarEvent,
		Title:  title,
		Interval: domain.TimeInterval{
			Start: clockOn(day, startHour, startMin),
			End:   clockOn(day, endHour, endMin),
		},
	}
}
