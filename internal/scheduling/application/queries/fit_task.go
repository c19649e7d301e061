package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// FitTaskQuery contains the parameters for placing a task into a day.
type FitTaskQuery struct {
	UserID uuid.UUID
	Date   time.Time
	Task   domain.SchedulableTask
}

// TaskPlacement is the result of a task placement search.
type TaskPlacement struct {
	Date       time.Time              `json:"date"`
	Candidates []domain.TaskCandidate `json:"candidates"`
}

// FitTaskHandler handles the FitTaskQuery.
type FitTaskHandler struct {
	gaps   *FindGapsHandler
	scorer *services.SlotScorer
}

// NewFitTaskHandler creates a new FitTaskHandler.
func NewFitTaskHandler(gaps *FindGapsHandler, scorer *services.SlotScorer) *FitTaskHandler {
	return &FitTaskHandler{gaps: gaps, scorer: scorer}
}

// Handle finds the day's gaps and ranks the ones the task fits into.
// Gaps shorter than the task's estimate are excluded outright.
func (h *FitTaskHandler) Handle(ctx context.Context, query FitTaskQuery) (*TaskPlacement, error) {
	if query.Task.EstimatedMinutes <= 0 {
		return nil, fmt.Errorf("fit task: estimated minutes must be positive")
	}

	report, err := h.gaps.Handle(ctx, FindGapsQuery{UserID: query.UserID, Date: query.Date})
	if err != nil {
		return nil, fmt.Errorf("fit task: %w", err)
	}

	return &TaskPlacement{
		Date:       report.Date,
		Candidates: h.scorer.FitTask(query.Task, report.Gaps),
	}, nil
}
