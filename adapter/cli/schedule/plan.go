package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mitchforest/dayli/adapter/cli"
	"github.com/mitchforest/dayli/internal/scheduling/application/commands"
	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

var (
	planDate  string
	planFile  string
	planType  string
	planTitle string
	planStart string
	planEnd   string
	planDesc  string
)

// plannedBlockInput is the JSON shape accepted by --file.
type plannedBlockInput struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Start       string `json:"start"` // HH:MM
	End         string `json:"end"`   // HH:MM
	Description string `json:"description,omitempty"`
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan one or more time blocks",
	Long: `Commit a batch of proposed blocks against the existing schedule.
Blocks that conflict with persisted blocks or with earlier blocks in the
same batch are rejected individually; the rest are created.

Examples:
  dayli schedule plan --type work --title "Deep work" --start 09:00 --end 11:00
  dayli schedule plan --file blocks.json --date 2026-01-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		out := cmd.OutOrStdout()
		if app == nil || app.PlanBlocksHandler == nil {
			return fmt.Errorf("planning requires database connection")
		}

		date, err := parseDateFlag(planDate)
		if err != nil {
			return err
		}

		var inputs []plannedBlockInput
		if planFile != "" {
			data, err := os.ReadFile(planFile)
			if err != nil {
				return fmt.Errorf("failed to read plan file: %w", err)
			}
			if err := json.Unmarshal(data, &inputs); err != nil {
				return fmt.Errorf("invalid plan file: %w", err)
			}
		} else {
			if planTitle == "" || planStart == "" || planEnd == "" {
				return fmt.Errorf("either --file or --title, --start and --end are required")
			}
			inputs = []plannedBlockInput{{
				Type:        planType,
				Title:       planTitle,
				Start:       planStart,
				End:         planEnd,
				Description: planDesc,
			}}
		}

		blocks := make([]services.ProposedBlock, 0, len(inputs))
		for i, input := range inputs {
			blockType := domain.BlockType(input.Type)
			if input.Type == "" {
				blockType = domain.BlockTypeWork
			}
			if !blockType.IsValid() {
				return fmt.Errorf("block %d: invalid type %q", i+1, input.Type)
			}
			start, err := parseTimeOnDate(date, input.Start)
			if err != nil {
				return fmt.Errorf("block %d: %w", i+1, err)
			}
			end, err := parseTimeOnDate(date, input.End)
			if err != nil {
				return fmt.Errorf("block %d: %w", i+1, err)
			}
			blocks = append(blocks, services.ProposedBlock{
				Type:        blockType,
				Title:       input.Title,
				Start:       start,
				End:         end,
				Description: input.Description,
			})
		}

		result, err := app.PlanBlocksHandler.Handle(cmd.Context(), commands.PlanBlocksCommand{
			UserID: app.CurrentUserID,
			Date:   date,
			Blocks: blocks,
		})
		if err != nil {
			return fmt.Errorf("failed to plan blocks: %w", err)
		}

		for _, block := range result.Created {
			fmt.Fprintf(out, "Created %s - %s  %s (%s)\n",
				block.StartTime().Format("15:04"),
				block.EndTime().Format("15:04"),
				block.Title(),
				block.ID(),
			)
		}
		for _, rejected := range result.Rejected {
			fmt.Fprintf(out, "Rejected %s - %s  %s: %s\n",
				rejected.Proposed.Start.Format("15:04"),
				rejected.Proposed.End.Format("15:04"),
				rejected.Proposed.Title,
				rejected.Reason,
			)
		}

		fmt.Fprintln(out, strings.Repeat("-", 60))
		fmt.Fprintf(out, "Planned: %d created, %d rejected\n", len(result.Created), len(result.Rejected))

		return nil
	},
}

func parseTimeOnDate(date time.Time, value string) (time.Time, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format, use HH:MM: %w", err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}

func init() {
	planCmd.Flags().StringVarP(&planDate, "date", "d", "", "date to plan (YYYY-MM-DD)")
	planCmd.Flags().StringVarP(&planFile, "file", "f", "", "JSON file with proposed blocks")
	planCmd.Flags().StringVarP(&planType, "type", "t", "work", "block type (work, meeting, email, break, blocked)")
	planCmd.Flags().StringVar(&planTitle, "title", "", "block title")
	planCmd.Flags().StringVar(&planStart, "start", "", "start time (HH:MM)")
	planCmd.Flags().StringVar(&planEnd, "end", "", "end time (HH:MM)")
	planCmd.Flags().StringVar(&planDesc, "desc", "", "block description")
}
