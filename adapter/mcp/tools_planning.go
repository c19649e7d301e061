package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"

	scheduleQueries "github.com/mitchforest/dayli/internal/scheduling/application/queries"
	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

type slotsSuggestInput struct {
	StartDate       string   `json:"start_date,omitempty"`
	Days            int      `json:"days,omitempty"`
	DurationMinutes int      `json:"duration_minutes" jsonschema:"required"`
	Prefer          string   `json:"prefer,omitempty"`
	Attendees       []string `json:"attendees,omitempty"`
	RequireAll      bool     `json:"require_all,omitempty"`
}

type tasksFitInput struct {
	Date             string   `json:"date,omitempty"`
	Title            string   `json:"title" jsonschema:"required"`
	EstimatedMinutes int      `json:"estimated_minutes" jsonschema:"required"`
	Energy           string   `json:"energy,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
}

type workloadBalanceInput struct {
	WeekStart string `json:"week_start,omitempty"`
	Days      int    `json:"days,omitempty"`
}

func registerPlanningTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("slots.suggest").
		Description("Suggest ranked meeting slots over the next days, weighing attendee free/busy status when available").
		Handler(func(ctx context.Context, input slotsSuggestInput) (*scheduleQueries.SlotSuggestions, error) {
			if app == nil || app.SuggestSlotsHandler == nil {
				return nil, errors.New("slot suggestions require database connection")
			}
			startDate, err := parseDate(input.StartDate, time.Now())
			if err != nil {
				return nil, err
			}

			var preference services.TimePreference
			switch input.Prefer {
			case "":
				preference = services.PreferenceNone
			case "morning":
				preference = services.PreferenceMorning
			case "afternoon":
				preference = services.PreferenceAfternoon
			default:
				return nil, fmt.Errorf("invalid preference %q, use morning or afternoon", input.Prefer)
			}

			return app.SuggestSlotsHandler.Handle(ctx, scheduleQueries.SuggestSlotsQuery{
				UserID:              app.CurrentUserID,
				StartDate:           startDate,
				Days:                input.Days,
				DurationMinutes:     input.DurationMinutes,
				Preference:          preference,
				Attendees:           input.Attendees,
				RequireAllAttendees: input.RequireAll,
			})
		})

	srv.Tool("tasks.fit").
		Description("Rank a day's free gaps by how well a task fits them, considering duration, energy, and priority").
		Handler(func(ctx context.Context, input tasksFitInput) (*scheduleQueries.TaskPlacement, error) {
			if app == nil || app.FitTaskHandler == nil {
				return nil, errors.New("task fitting requires database connection")
			}
			date, err := parseDate(input.Date, time.Now())
			if err != nil {
				return nil, err
			}

			return app.FitTaskHandler.Handle(ctx, scheduleQueries.FitTaskQuery{
				UserID: app.CurrentUserID,
				Date:   date,
				Task: domain.SchedulableTask{
					ID:               uuid.New(),
					Title:            input.Title,
					EstimatedMinutes: input.EstimatedMinutes,
					Energy:           domain.TaskEnergy(input.Energy),
					Priority:         domain.TaskPriority(input.Priority),
					Keywords:         input.Keywords,
				},
			})
		})

	srv.Tool("workload.balance").
		Description("Analyze workload across a week against the daily target and propose rebalancing moves").
		Handler(func(ctx context.Context, input workloadBalanceInput) (*scheduleQueries.WorkloadReport, error) {
			if app == nil || app.AnalyzeWorkloadHandler == nil {
				return nil, errors.New("workload analysis requires database connection")
			}
			weekStart, err := parseDate(input.WeekStart, time.Now())
			if err != nil {
				return nil, err
			}

			return app.AnalyzeWorkloadHandler.Handle(ctx, scheduleQueries.AnalyzeWorkloadQuery{
				UserID:    app.CurrentUserID,
				WeekStart: weekStart,
				Days:      input.Days,
			})
		})

	return nil
}
