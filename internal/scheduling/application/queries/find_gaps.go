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

// FindGapsQuery contains the parameters for a gap search.
type FindGapsQuery struct {
	UserID uuid.UUID
	Date   time.Time
	// MinGapMinutes filters out gaps shorter than this. Zero keeps all.
	MinGapMinutes int
}

// GapReport is the result of a gap search.
type GapReport struct {
	Date      time.Time       `json:"date"`
	WorkStart time.Time       `json:"work_start"`
	WorkEnd   time.Time       `json:"work_end"`
	Gaps      []domain.Gap    `json:"gaps"`
	Stats     domain.GapStats `json:"stats"`
}

// FindGapsHandler handles the FindGapsQuery.
type FindGapsHandler struct {
	blocks   domain.BlockStore
	calendar CalendarSource
	prefs    preferences.Store
	finder   *services.GapFinder
}

// NewFindGapsHandler creates a new FindGapsHandler.
func NewFindGapsHandler(
	blocks domain.BlockStore,
	calendar CalendarSource,
	prefs preferences.Store,
	finder *services.GapFinder,
) *FindGapsHandler {
	return &FindGapsHandler{
		blocks:   blocks,
		calendar: calendar,
		prefs:    prefs,
		finder:   finder,
	}
}

// Handle computes the free intervals of the user's work day after merging
// schedule blocks and calendar events.
func (h *FindGapsHandler) Handle(ctx context.Context, query FindGapsQuery) (*GapReport, error) {
	prefs, err := loadPreferences(ctx, h.prefs, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("find gaps: %w", err)
	}

	workStart, workEnd, err := prefs.WorkWindow(query.Date)
	if err != nil {
		return nil, fmt.Errorf("find gaps: %w", err)
	}

	var fetchErrs []error
	items := make([]domain.BusyItem, 0)

	blocks, err := h.blocks.GetBlocksForDate(ctx, query.UserID, query.Date)
	if err != nil {
		fetchErrs = append(fetchErrs, fmt.Errorf("schedule blocks: %w", err))
	} else {
		items = append(items, blockBusyItems(blocks)...)
	}

	events, err := h.calendar.BusyItems(ctx, query.UserID, midnight(query.Date), midnight(query.Date).Add(24*time.Hour))
	if err != nil {
		fetchErrs = append(fetchErrs, fmt.Errorf("calendar events: %w", err))
	} else {
		items = append(items, events...)
	}

	if len(fetchErrs) > 0 {
		return nil, fmt.Errorf("find gaps: %w", errors.Join(fetchErrs...))
	}

	gaps := h.finder.Find(workStart, workEnd, items, query.MinGapMinutes)
	return &GapReport{
		Date:      midnight(query.Date),
		WorkStart: workStart,
		WorkEnd:   workEnd,
		Gaps:      gaps,
		Stats:     h.finder.Stats(gaps),
	}, nil
}
