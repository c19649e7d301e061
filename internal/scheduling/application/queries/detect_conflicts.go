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

// DetectConflictsQuery contains the parameters for a conflict scan.
type DetectConflictsQuery struct {
	UserID uuid.UUID
	Date   time.Time
}

// ConflictReport is the result of a conflict scan.
type ConflictReport struct {
	Date      time.Time         `json:"date"`
	Conflicts []domain.Conflict `json:"conflicts"`
	ItemCount int               `json:"item_count"`
}

// DetectConflictsHandler handles the DetectConflictsQuery.
type DetectConflictsHandler struct {
	blocks   domain.BlockStore
	calendar CalendarSource
	prefs    preferences.Store
	detector *services.ConflictDetector
}

// NewDetectConflictsHandler creates a new DetectConflictsHandler.
func NewDetectConflictsHandler(
	blocks domain.BlockStore,
	calendar CalendarSource,
	prefs preferences.Store,
	detector *services.ConflictDetector,
) *DetectConflictsHandler {
	return &DetectConflictsHandler{
		blocks:   blocks,
		calendar: calendar,
		prefs:    prefs,
		detector: detector,
	}
}

// Handle gathers the day's busy items from the schedule store and the
// calendar, adds the user's protected preference windows, and runs the
// detector. Collaborator failures are aggregated rather than returned
// one at a time.
func (h *DetectConflictsHandler) Handle(ctx context.Context, query DetectConflictsQuery) (*ConflictReport, error) {
	dayStart := midnight(query.Date)
	dayEnd := dayStart.Add(24 * time.Hour)

	var fetchErrs []error
	items := make([]domain.BusyItem, 0)

	blocks, err := h.blocks.GetBlocksForDate(ctx, query.UserID, query.Date)
	if err != nil {
		fetchErrs = append(fetchErrs, fmt.Errorf("schedule blocks: %w", err))
	} else {
		items = append(items, blockBusyItems(blocks)...)
	}

	events, err := h.calendar.BusyItems(ctx, query.UserID, dayStart, dayEnd)
	if err != nil {
		fetchErrs = append(fetchErrs, fmt.Errorf("calendar events: %w", err))
	} else {
		items = append(items, events...)
	}

	if len(fetchErrs) > 0 {
		return nil, fmt.Errorf("detect conflicts: %w", errors.Join(fetchErrs...))
	}

	prefs, err := loadPreferences(ctx, h.prefs, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("detect conflicts: %w", err)
	}

	protected, err := protectedWindows(prefs, query.Date)
	if err != nil {
		return nil, fmt.Errorf("detect conflicts: %w", err)
	}

	conflicts := h.detector.Detect(items, protected)
	return &ConflictReport{
		Date:      dayStart,
		Conflicts: conflicts,
		ItemCount: len(items),
	}, nil
}

// protectedWindows builds the user's protected preference windows for a
// date: the lunch window plus any standing breaks.
func protectedWindows(prefs *preferences.Preferences, date time.Time) ([]services.ProtectedWindow, error) {
	windows := make([]services.ProtectedWindow, 0, 1+len(prefs.BreakSchedule))

	lunchStart, lunchEnd, err := prefs.LunchWindow(date)
	if err != nil {
		return nil, err
	}
	windows = append(windows, services.ProtectedWindow{
		ID:       "preference:lunch",
		Title:    "Lunch",
		Interval: domain.TimeInterval{Start: lunchStart, End: lunchEnd},
	})

	for i, brk := range prefs.BreakSchedule {
		start, err := preferences.AtClock(date, brk.Start)
		if err != nil {
			return nil, err
		}
		windows = append(windows, services.ProtectedWindow{
			ID:       fmt.Sprintf("preference:break:%d", i),
			Title:    brk.Title,
			Interval: domain.TimeInterval{Start: start, End: start.Add(time.Duration(brk.DurationMinutes) * time.Minute)},
		})
	}

	return windows, nil
}

func midnight(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
