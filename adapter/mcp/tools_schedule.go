package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	scheduleCommands "github.com/mitchforest/dayli/internal/scheduling/application/commands"
	scheduleQueries "github.com/mitchforest/dayli/internal/scheduling/application/queries"
	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

type scheduleConflictsInput struct {
	Date string `json:"date,omitempty"`
}

type scheduleGapsInput struct {
	Date       string `json:"date,omitempty"`
	MinMinutes int    `json:"min_minutes,omitempty"`
}

type proposedBlockInput struct {
	Type        string `json:"type,omitempty"`
	Title       string `json:"title" jsonschema:"required"`
	Start       string `json:"start" jsonschema:"required"`
	End         string `json:"end" jsonschema:"required"`
	Description string `json:"description,omitempty"`
}

type schedulePlanInput struct {
	Date   string               `json:"date,omitempty"`
	Blocks []proposedBlockInput `json:"blocks" jsonschema:"required"`
}

type scheduleRescheduleInput struct {
	BlockID string `json:"block_id" jsonschema:"required"`
	Date    string `json:"date,omitempty"`
	Start   string `json:"start" jsonschema:"required"`
	End     string `json:"end" jsonschema:"required"`
}

type rescheduledBlockDTO struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  string    `json:"date"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func registerScheduleTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("schedule.conflicts").
		Description("Detect conflicts in a day's schedule: overlaps, buffer violations, travel-time problems, and protected-time intrusions").
		Handler(func(ctx context.Context, input scheduleConflictsInput) (*scheduleQueries.ConflictReport, error) {
			if app == nil || app.DetectConflictsHandler == nil {
				return nil, errors.New("conflict detection requires database connection")
			}
			date, err := parseDate(input.Date, time.Now())
			if err != nil {
				return nil, err
			}

			return app.DetectConflictsHandler.Handle(ctx, scheduleQueries.DetectConflictsQuery{
				UserID: app.CurrentUserID,
				Date:   date,
			})
		})

	srv.Tool("schedule.gaps").
		Description("Find free gaps in a day's schedule, classified by day part and quality").
		Handler(func(ctx context.Context, input scheduleGapsInput) (*scheduleQueries.GapReport, error) {
			if app == nil || app.FindGapsHandler == nil {
				return nil, errors.New("gap analysis requires database connection")
			}
			date, err := parseDate(input.Date, time.Now())
			if err != nil {
				return nil, err
			}

			return app.FindGapsHandler.Handle(ctx, scheduleQueries.FindGapsQuery{
				UserID:        app.CurrentUserID,
				Date:          date,
				MinGapMinutes: input.MinMinutes,
			})
		})

	srv.Tool("schedule.plan").
		Description("Commit a batch of proposed time blocks; conflicting blocks are rejected individually with reasons").
		Handler(func(ctx context.Context, input schedulePlanInput) (*services.PlanResult, error) {
			if app == nil || app.PlanBlocksHandler == nil {
				return nil, errors.New("planning requires database connection")
			}
			date, err := parseDate(input.Date, time.Now())
			if err != nil {
				return nil, err
			}

			blocks := make([]services.ProposedBlock, 0, len(input.Blocks))
			for i, proposed := range input.Blocks {
				blockType := domain.BlockType(proposed.Type)
				if proposed.Type == "" {
					blockType = domain.BlockTypeWork
				}
				if !blockType.IsValid() {
					return nil, fmt.Errorf("block %d: invalid type %q", i+1, proposed.Type)
				}
				start, err := parseTimeOnDate(date, proposed.Start)
				if err != nil {
					return nil, fmt.Errorf("block %d: %w", i+1, err)
				}
				end, err := parseTimeOnDate(date, proposed.End)
				if err != nil {
					return nil, fmt.Errorf("block %d: %w", i+1, err)
				}
				blocks = append(blocks, services.ProposedBlock{
					Type:        blockType,
					Title:       proposed.Title,
					Start:       start,
					End:         end,
					Description: proposed.Description,
				})
			}

			return app.PlanBlocksHandler.Handle(ctx, scheduleCommands.PlanBlocksCommand{
				UserID: app.CurrentUserID,
				Date:   date,
				Blocks: blocks,
			})
		})

	srv.Tool("schedule.reschedule").
		Description("Move an existing block to a new time slot; fixed blocks and overlapping targets are refused").
		Handler(func(ctx context.Context, input scheduleRescheduleInput) (*rescheduledBlockDTO, error) {
			if app == nil || app.RescheduleBlockHandler == nil {
				return nil, errors.New("rescheduling requires database connection")
			}
			blockID, err := parseUUID(input.BlockID)
			if err != nil {
				return nil, err
			}
			date, err := parseDate(input.Date, time.Now())
			if err != nil {
				return nil, err
			}
			start, err := parseTimeOnDate(date, input.Start)
			if err != nil {
				return nil, err
			}
			end, err := parseTimeOnDate(date, input.End)
			if err != nil {
				return nil, err
			}

			block, err := app.RescheduleBlockHandler.Handle(ctx, scheduleCommands.RescheduleBlockCommand{
				UserID:   app.CurrentUserID,
				BlockID:  blockID,
				Date:     date,
				NewStart: start,
				NewEnd:   end,
			})
			if err != nil {
				return nil, err
			}

			return &rescheduledBlockDTO{
				ID:    block.ID().String(),
				Title: block.Title(),
				Date:  block.Date().Format(dateLayout),
				Start: block.StartTime(),
				End:   block.EndTime(),
			}, nil
		})

	return nil
}
