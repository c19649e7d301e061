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

// AnalyzeWorkloadQuery contains the parameters for a week-load analysis.
type AnalyzeWorkloadQuery struct {
	UserID    uuid.UUID
	WeekStart time.Time
	// Days is the number of days to analyze, defaulting to 7.
	Days int
}

// WorkloadReport is the result of a week-load analysis.
type WorkloadReport struct {
	Week         domain.WeekLoad            `json:"week"`
	TargetPerDay int                        `json:"target_minutes_per_day"`
	Suggestions  []domain.BalanceSuggestion `json:"suggestions"`
}

// AnalyzeWorkloadHandler handles the AnalyzeWorkloadQuery.
type AnalyzeWorkloadHandler struct {
	blocks     domain.BlockStore
	calendar   CalendarSource
	prefs      preferences.Store
	balancer   *services.WorkloadBalancer
	rebalancer services.Rebalancer
}

// NewAnalyzeWorkloadHandler creates a new AnalyzeWorkloadHandler.
func NewAnalyzeWorkloadHandler(
	blocks domain.BlockStore,
	calendar CalendarSource,
	prefs preferences.Store,
	balancer *services.WorkloadBalancer,
	rebalancer services.Rebalancer,
) *AnalyzeWorkloadHandler {
	return &AnalyzeWorkloadHandler{
		blocks:     blocks,
		calendar:   calendar,
		prefs:      prefs,
		balancer:   balancer,
		rebalancer: rebalancer,
	}
}

// Handle scores each day of the week against the user's daily target and
// proposes rebalancing moves between overloaded and underloaded days.
func (h *AnalyzeWorkloadHandler) Handle(ctx context.Context, query AnalyzeWorkloadQuery) (*WorkloadReport, error) {
	days := query.Days
	if days <= 0 {
		days = 7
	}

	prefs, err := loadPreferences(ctx, h.prefs, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("analyze workload: %w", err)
	}
	target := prefs.TargetMinutesPerDay()

	weekStart := midnight(query.WeekStart)

	var fetchErrs []error
	inputs := make([]services.DayInput, 0, days)
	blocksByDate := make(map[string][]*domain.ScheduleBlock, days)

	for i := 0; i < days; i++ {
		date := weekStart.AddDate(0, 0, i)
		input := services.DayInput{Date: date}

		blocks, err := h.blocks.GetBlocksForDate(ctx, query.UserID, date)
		if err != nil {
			fetchErrs = append(fetchErrs, fmt.Errorf("schedule blocks for %s: %w", date.Format("2006-01-02"), err))
		} else {
			input.Blocks = blocks
			blocksByDate[date.Format("2006-01-02")] = blocks
		}

		events, err := h.calendar.BusyItems(ctx, query.UserID, date, date.AddDate(0, 0, 1))
		if err != nil {
			fetchErrs = append(fetchErrs, fmt.Errorf("calendar events for %s: %w", date.Format("2006-01-02"), err))
		} else {
			input.Events = events
		}

		inputs = append(inputs, input)
	}
	if len(fetchErrs) > 0 {
		return nil, fmt.Errorf("analyze workload: %w", errors.Join(fetchErrs...))
	}

	week := h.balancer.Analyze(inputs, target)

	var suggestions []domain.BalanceSuggestion
	if h.rebalancer != nil {
		suggestions = h.rebalancer.Rebalance(week, blocksByDate, target)
	}

	return &WorkloadReport{
		Week:         week,
		TargetPerDay: target,
		Suggestions:  suggestions,
	}, nil
}
